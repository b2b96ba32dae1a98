package domain

import (
	"errors"
	"strings"
)

// Kind classifies a failure surfaced by the todo repository.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindAuthorization
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindAuthorization:
		return "authorization failed"
	case KindNotFound:
		return "not found"
	case KindStorage:
		return "storage failure"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by the repository and storage layers.
// Err holds the underlying cause, if any.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Sentinels for use with errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrAuthorization   = &Error{Kind: KindAuthorization}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrStorage         = &Error{Kind: KindStorage}
)

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err == nil {
		parts = append(parts, e.Kind.String())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches bare sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func InvalidArgument(op, msg string) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Message: msg}
}

func Unauthorized(op, msg string) error {
	return &Error{Kind: KindAuthorization, Op: op, Message: msg}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

// StorageError wraps a persistence failure, keeping err as the cause.
func StorageError(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}
