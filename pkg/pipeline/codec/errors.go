package codec

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDocument    = errors.New("invalid pipeline definition")
	ErrUnknownConnection  = errors.New("incoming connection references an unknown step")
	ErrSharedNotebookFile = errors.New("steps share the same notebook file")
)

// NotebookPair is two steps pointing to the same notebook.
type NotebookPair struct {
	First    string
	Second   string
	FilePath string
}

// SharedNotebookError reports every pair of steps that share a notebook.
type SharedNotebookError struct {
	Pairs []NotebookPair
}

func (e *SharedNotebookError) Error() string {
	msgs := make([]string, 0, len(e.Pairs))
	for _, pair := range e.Pairs {
		msgs = append(msgs, fmt.Sprintf("%s and %s (%s)", pair.First, pair.Second, pair.FilePath))
	}

	return ErrSharedNotebookFile.Error() + ": " + strings.Join(msgs, ", ")
}

func (e *SharedNotebookError) Unwrap() error { return ErrSharedNotebookFile }
