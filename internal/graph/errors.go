package graph

import (
	"errors"

	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/Tomlord1122/gql-todo/internal/domain"
	"github.com/Tomlord1122/gql-todo/internal/storage"
	"github.com/Tomlord1122/gql-todo/internal/validator"
)

// Error codes reported in extensions.code.
const (
	CodeBadUserInput = "BAD_USER_INPUT"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeStorage      = "STORAGE_ERROR"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// resolverError carries the error kind to the client as GraphQL extensions.
type resolverError struct {
	err error
}

var _ gqlerrors.ExtendedError = (*resolverError)(nil)

func (e *resolverError) Error() string { return e.err.Error() }

func (e *resolverError) Unwrap() error { return e.err }

func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": codeFor(e.err)}
	if state := storage.SQLState(e.err); state != "" {
		ext["sqlstate"] = state
	}
	var fieldErrs validator.Errors
	if errors.As(e.err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field)
		}
		ext["fields"] = fields
	}
	return ext
}

func codeFor(err error) string {
	switch domain.KindOf(err) {
	case domain.KindInvalidArgument:
		return CodeBadUserInput
	case domain.KindAuthorization:
		return CodeForbidden
	case domain.KindNotFound:
		return CodeNotFound
	case domain.KindStorage:
		return CodeStorage
	default:
		return CodeInternal
	}
}
