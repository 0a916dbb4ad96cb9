// Package apperr defines the error taxonomy shared by the store, the document
// layout engine, the exporter and the backup collaborator.
//
// Every failure is terminal for the single user action that raised it. Nothing
// retries. The action boundary (package app) turns these into notifications.
package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes application errors.
type Kind string

const (
	// KindValidation blocks a write; the user corrects input and retries.
	KindValidation Kind = "VALIDATION"

	// KindStorage is an I/O or database failure surfaced to the caller.
	KindStorage Kind = "STORAGE"

	// KindInvalidInput means an operation needed a selected record and got none.
	KindInvalidInput Kind = "INVALID_INPUT"

	// KindRender is a document generation failure. No partial file is left behind.
	KindRender Kind = "RENDER"

	// KindBackup is a failed or unavailable backup.
	KindBackup Kind = "BACKUP"
)

// Error is an application error with a kind, the failing operation and an
// optional cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation error carrying the user-facing message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Storage wraps a database failure for the named operation.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Message: "storage failure", Err: err}
}

// InvalidInput reports a missing or unusable selection.
func InvalidInput(op, message string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Message: message}
}

// Render wraps a document generation failure.
func Render(message string, err error) *Error {
	return &Error{Kind: KindRender, Op: "render", Message: message, Err: err}
}

// Backup wraps a backup failure.
func Backup(message string, err error) *Error {
	return &Error{Kind: KindBackup, Op: "backup", Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the message of the first *Error in err's chain, falling
// back to err.Error().
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsStorage reports whether err is a storage error.
func IsStorage(err error) bool { return KindOf(err) == KindStorage }

// IsInvalidInput reports whether err is an invalid-input error.
func IsInvalidInput(err error) bool { return KindOf(err) == KindInvalidInput }

// IsRender reports whether err is a render error.
func IsRender(err error) bool { return KindOf(err) == KindRender }

// IsBackup reports whether err is a backup error.
func IsBackup(err error) bool { return KindOf(err) == KindBackup }
