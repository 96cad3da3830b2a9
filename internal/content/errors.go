package content

import (
	"errors"
	"fmt"

	"github.com/denizhukuk/lawsite/internal/database"
)

// Error kinds returned by Service. Match them with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrUniqueViolation     = errors.New("uniqueness violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrInvalidReference    = errors.New("invalid reference")
	ErrValidation          = errors.New("validation failed")
	ErrTransactionFailure  = errors.New("transaction failure")
)

// Error pairs one of the kinds above with a message that is safe to show
// to API clients.
type Error struct {
	Kind  error
	Msg   string
	cause error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.cause}
}

func newError(kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), cause: cause}
}

func notFound(what string, id int64) error {
	return newError(ErrNotFound, nil, "%s %d not found", what, id)
}

// translate maps driver and transaction failures onto the error kinds.
// deleting selects how a foreign key failure reads: on delete it means
// dependents still exist, on create or update a dangling reference.
func translate(err error, what string, deleting bool) error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}

	switch {
	case database.IsUniqueViolation(err):
		return newError(ErrUniqueViolation, err, "%s already exists", what)
	case database.IsForeignKeyViolation(err):
		if deleting {
			return newError(ErrForeignKeyViolation, err, "%s is still referenced by other records", what)
		}
		return newError(ErrInvalidReference, err, "%s references a record that does not exist", what)
	case errors.Is(err, database.ErrTransaction):
		return newError(ErrTransactionFailure, err, "%s could not be saved", what)
	}
	return err
}
