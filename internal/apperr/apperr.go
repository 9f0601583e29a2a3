// Package apperr defines the failure kinds surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindAuth means the caller's identity could not be established.
	KindAuth
	// KindValidation is a locally caught violation; nothing reached the store.
	KindValidation
	// KindStore means a store call failed; local optimistic state is kept.
	KindStore
	// KindNotFound means a referenced deck or board is missing at query time.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "AUTH_FAILURE"
	case KindValidation:
		return "VALIDATION_FAILURE"
	case KindStore:
		return "STORE_FAILURE"
	case KindNotFound:
		return "NOT_FOUND_FAILURE"
	default:
		return "INTERNAL_ERROR"
	}
}

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the end user. Store failures surface the
// store's own message verbatim.
func (e *Error) UserMessage() string {
	if e.Kind == KindStore && e.Err != nil {
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func Auth(op string, err error) error {
	return &Error{Kind: KindAuth, Op: op, Message: "authentication required", Err: err}
}

func Validation(op, message string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

func NotFound(op, message string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

func Store(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
