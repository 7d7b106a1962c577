package warehouse

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies warehouse failures.
type Kind string

const (
	ConnectionError Kind = "ConnectionError"
	QueryError      Kind = "QueryError"
	WriteError      Kind = "WriteError"
)

// Error is returned by every warehouse operation that fails.
type Error struct {
	Kind  Kind
	Op    string
	Table string

	// Applied and Total are set for writes: how many statements of the
	// plan ran before the failure. Applied is 0 after a rollback.
	Applied int
	Total   int

	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Op)
	if e.Table != "" {
		msg += " " + e.Table
	}
	if e.Kind == WriteError && e.Total > 0 {
		msg += fmt.Sprintf(" (%d of %d statements applied)", e.Applied, e.Total)
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Partial reports whether some statements of a write were kept.
func (e *Error) Partial() bool {
	return e.Kind == WriteError && e.Applied > 0
}

// IsKind reports whether err is a warehouse error of kind k.
func IsKind(err error, k Kind) bool {
	var whErr *Error
	if errors.As(err, &whErr) {
		return whErr.Kind == k
	}
	return false
}

func newError(kind Kind, op, tableName string, err error) *Error {
	return &Error{
		Kind:  kind,
		Op:    op,
		Table: tableName,
		Err:   errors.WithStack(err),
	}
}
