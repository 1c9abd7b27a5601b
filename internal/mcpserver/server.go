// Package mcpserver exposes notebook lookups as MCP tools over stdio. Tools
// only compute paths: nothing is created and no editor is started.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vinayprograms/tanager/internal/apperr"
	"github.com/vinayprograms/tanager/internal/config"
	"github.com/vinayprograms/tanager/internal/datephrase"
	"github.com/vinayprograms/tanager/internal/entry"
	"github.com/vinayprograms/tanager/internal/files"
	"github.com/vinayprograms/tanager/internal/notebook"
)

// Server wraps the MCP server with tanager tools.
type Server struct {
	mcp      *server.MCPServer
	cfg      *config.Config
	store    *files.Store
	expander *entry.Expander
	now      func() time.Time
}

// New creates a server answering from cfg. now may be nil.
func New(version string, cfg *config.Config, store *files.Store, expander *entry.Expander, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{cfg: cfg, store: store, expander: expander, now: now}

	s.mcp = server.NewMCPServer(
		"tanager",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notebooks",
		mcp.WithDescription("List the configured notebooks with their aliases and directories."),
	), s.listNotebooks)

	s.mcp.AddTool(mcp.NewTool("entry_path",
		mcp.WithDescription("Compute the journal entry path for free-text words. "+
			"A first word naming a notebook selects it; otherwise the default notebook is used."),
		mcp.WithString("words", mcp.Required(), mcp.Description("Space separated words, e.g. \"work standup notes\"")),
		mcp.WithString("date", mcp.Description("Optional date such as 2017-12-25 or yesterday")),
	), s.entryPath)

	s.mcp.AddTool(mcp.NewTool("recent_entry",
		mcp.WithDescription("Return the most recently modified entry of a notebook."),
		mcp.WithString("notebook", mcp.Description("Notebook name or alias (default notebook when empty)")),
	), s.recentEntry)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

type notebookInfo struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Aliases []string `json:"aliases"`
	Default bool     `json:"default"`
}

func (s *Server) registry() (*notebook.Registry, error) {
	return notebook.BuildRegistry(s.cfg.Notebooks, nil)
}

func (s *Server) listNotebooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reg, err := s.registry()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	infos := []notebookInfo{}
	for _, nb := range reg.Notebooks() {
		aliases := nb.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		infos = append(infos, notebookInfo{Name: nb.Name, Path: nb.Path, Aliases: aliases, Default: nb.Default})
	}
	out, _ := json.MarshalIndent(infos, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) entryPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("words")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	date, err := datephrase.Parse(req.GetString("date", ""), s.now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reg, err := s.registry()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	words := strings.Fields(text)
	nb, err := reg.Resolve(words)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err := s.expander.Path(date, notebook.TitleWords(nb, words), nb.Path, nb.Template, nb.DefaultTitle)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(path), nil
}

func (s *Server) recentEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reg, err := s.registry()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var nb *notebook.Notebook
	if name := req.GetString("notebook", ""); name != "" {
		var ok bool
		if nb, ok = reg.Lookup(name); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%v: %s", apperr.ErrNotebookNotFound, name)), nil
		}
	} else if nb, err = reg.Resolve(nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err := s.store.Latest(nb.Path, []string{entry.Suffix(nb.Template)})
	if errors.Is(err, apperr.ErrNoFiles) {
		return mcp.NewToolResultError(fmt.Sprintf("no files in notebook %s", nb.Name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(path), nil
}
