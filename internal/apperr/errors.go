// Package apperr holds the sentinel errors shared across tanager packages.
// Callers wrap them with fmt.Errorf("%w") and match with errors.Is.
package apperr

import "errors"

var (
	ErrConfig            = errors.New("config error")
	ErrNotebookNotFound  = errors.New("cannot find notebook, check name or set default")
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrTemplateExpansion = errors.New("template expansion did not terminate")
	ErrNoFiles           = errors.New("no files in notebook")
	ErrDateParse         = errors.New("could not parse date")
)
