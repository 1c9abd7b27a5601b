// Package gitsync commits edited entries when a notebook lives in a git
// repository.
package gitsync

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrOtherStaged means the index holds changes besides the entry, which a
// commit of the entry would sweep in.
var ErrOtherStaged = errors.New("other changes are staged")

// Committer records a single file in version control, pushing afterwards
// when push is set.
type Committer interface {
	Commit(path, message string, push bool) error
}

// Repo commits with go-git. Files outside a repository are ignored.
type Repo struct {
	AuthorName  string
	AuthorEmail string
	// Now stamps commits. Nil means time.Now.
	Now func() time.Time
}

// New returns a Repo with the tanager author identity.
func New() *Repo {
	return &Repo{AuthorName: "Tanager", AuthorEmail: "tanager@local"}
}

func open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(filepath.Dir(path), &git.PlainOpenOptions{DetectDotGit: true})
}

// stagedOther returns a path other than relPath with staged changes, or "".
func stagedOther(status git.Status, relPath string) string {
	for p, fs := range status {
		if p == relPath {
			continue
		}
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			return p
		}
	}
	return ""
}

// Commit stages path and commits it alone with message. It returns nil
// when path is not inside a repository or the entry did not change, and
// ErrOtherStaged when the index already holds other changes.
func (r *Repo) Commit(path, message string, push bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	repo, err := open(abs)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open repository for %s: %w", path, err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(w.Filesystem.Root(), abs)
	if err != nil {
		return err
	}
	relPath := filepath.ToSlash(rel)

	status, err := w.Status()
	if err != nil {
		return err
	}
	if other := stagedOther(status, relPath); other != "" {
		return fmt.Errorf("%w: %s, not committing %s", ErrOtherStaged, other, relPath)
	}

	if _, err := w.Add(relPath); err != nil {
		return fmt.Errorf("failed to stage %s: %w", relPath, err)
	}

	status, err = w.Status()
	if err != nil {
		return err
	}
	fs, ok := status[relPath]
	if !ok || fs.Staging == git.Unmodified {
		return nil
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  r.AuthorName,
			Email: r.AuthorEmail,
			When:  now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit %s: %w", relPath, err)
	}

	if !push {
		return nil
	}

	remotes, err := repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return nil
	}

	err = repo.Push(&git.PushOptions{})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// Message is the commit message for an edited entry.
func Message(notebook, relPath string) string {
	return fmt.Sprintf("%s: update %s", notebook, filepath.ToSlash(relPath))
}
