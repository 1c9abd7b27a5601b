package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vinayprograms/tanager/internal/browse"
	"github.com/vinayprograms/tanager/internal/config"
	"github.com/vinayprograms/tanager/internal/datephrase"
	"github.com/vinayprograms/tanager/internal/dispatch"
	"github.com/vinayprograms/tanager/internal/editor"
	"github.com/vinayprograms/tanager/internal/entry"
	"github.com/vinayprograms/tanager/internal/files"
	"github.com/vinayprograms/tanager/internal/gitsync"
	"github.com/vinayprograms/tanager/internal/logging"
	"github.com/vinayprograms/tanager/internal/mcpserver"
	"github.com/vinayprograms/tanager/internal/notebook"
	"github.com/vinayprograms/tanager/internal/render"
)

const version = "0.1.0"

type options struct {
	configFile string
	date       string
	editorCmd  string
	recent     bool
	last       bool
	pwd        bool
	list       bool
	show       bool
	browse     bool
	mcp        bool
	verbose    bool
}

// cliArgs converts parsed flags into config.CLIArgs. Only flags given on
// the command line count as present, and an empty editor falls through to
// the file and environment.
func cliArgs(cmd *cobra.Command, opts *options) config.CLIArgs {
	args := config.CLIArgs{
		ConfigFile: config.None[string](),
		EditorCmd:  config.None[string](),
		EditRecent: opts.recent || opts.last,
		Pwd:        opts.pwd,
		List:       opts.list,
		Show:       opts.show,
		Browse:     opts.browse,
	}
	if cmd.Flags().Changed("config-file") {
		args.ConfigFile = config.Some(opts.configFile)
	}
	if cmd.Flags().Changed("editor-cmd") {
		args.EditorCmd = config.NonEmpty(opts.editorCmd)
	}
	return args
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "tanager [flags] [notebook] [title words...]",
		Short: "Open today's journal entry in your editor",
		Long: `tanager resolves a notebook from the first word (or the default
notebook), names the entry from the notebook's template, the date and the
remaining words, creates its directory and opens it in your editor.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, words []string) error {
			return run(cmd, opts, words, stdout, logging.New(stderr, opts.verbose))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config-file", "c", config.DefaultConfigPath, "config file (also $TANAGER_CONFIG)")
	f.StringVarP(&opts.date, "date", "d", "", "date of the entry, e.g. 2017-12-25 or yesterday")
	f.StringVarP(&opts.editorCmd, "editor-cmd", "e", "", "editor command (default $VISUAL, then $EDITOR)")
	f.BoolVarP(&opts.recent, "recent", "r", false, "edit the most recently modified entry")
	f.BoolVarP(&opts.last, "last", "l", false, "same as --recent")
	f.BoolVar(&opts.pwd, "pwd", false, "print the notebook directory")
	f.BoolVar(&opts.list, "list", false, "list configured notebooks")
	f.BoolVar(&opts.show, "show", false, "render the entry instead of editing it")
	f.BoolVarP(&opts.browse, "browse", "b", false, "pick an entry to edit interactively")
	f.BoolVar(&opts.mcp, "mcp", false, "serve notebook tools over MCP on stdio")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	return cmd
}

func run(cmd *cobra.Command, opts *options, words []string, stdout io.Writer, log zerolog.Logger) error {
	cfg, err := config.Resolve(cliArgs(cmd, opts), os.LookupEnv)
	if err != nil {
		return err
	}

	store := files.NewOSStore()
	expander := entry.NewExpander()

	if opts.mcp {
		log.Debug().Msg("serving MCP on stdio")
		return mcpserver.New(version, cfg, store, expander, nil).ServeStdio()
	}

	date, err := datephrase.Parse(opts.date, time.Now())
	if err != nil {
		return err
	}

	d := &dispatch.Dispatcher{
		Store:     store,
		Launcher:  editor.NewExec(log),
		Committer: gitsync.New(),
		Expander:  expander,
		Browse: func(nb *notebook.Notebook, suffix string) (string, error) {
			return browse.Run(store, nb.Name, nb.Path, suffix, log)
		},
		Render: render.Markdown,
		Out:    stdout,
		Log:    log,
	}

	return d.Run(cmd.Context(), cfg, date, words)
}
