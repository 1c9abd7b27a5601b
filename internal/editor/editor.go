// Package editor starts the user's editor on an entry.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"

	"github.com/vinayprograms/tanager/internal/apperr"
)

// Launcher opens path in the editor named by command.
type Launcher interface {
	Launch(ctx context.Context, command, path string) error
}

// Args splits command the way a shell would, expands a leading ~ in the
// program name and appends path as the last argument.
func Args(command, path string) ([]string, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("%w: editor command %q: %v", apperr.ErrConfig, command, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: editor command is empty", apperr.ErrConfig)
	}

	program, err := homedir.Expand(words[0])
	if err != nil {
		return nil, fmt.Errorf("%w: editor command %q: %v", apperr.ErrConfig, command, err)
	}
	words[0] = program

	return append(words, path), nil
}

// Exec runs the editor as a child process attached to the terminal and
// waits for it to exit.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    zerolog.Logger
}

// NewExec returns an Exec on the process's own stdio.
func NewExec(log zerolog.Logger) *Exec {
	return &Exec{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Log: log}
}

// Launch starts the editor. The editor's exit status is not an error; only
// failing to start it is.
func (e *Exec) Launch(ctx context.Context, command, path string) error {
	args, err := Args(command, path)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	e.Log.Debug().Strs("args", args).Msg("launching editor")

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e.Log.Debug().Int("code", exitErr.ExitCode()).Msg("editor exited with non-zero status")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to start editor %q: %w", args[0], err)
	}
	return nil
}
