package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := NotFound("EditTodo", "Todo not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAuthorization))
	assert.False(t, errors.Is(err, ErrStorage))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestError_WrappedKeepsKind(t *testing.T) {
	err := fmt.Errorf("resolver: %w", Unauthorized("DeleteTodo", "Authentication failed"))

	assert.True(t, errors.Is(err, ErrAuthorization))
	assert.Equal(t, KindAuthorization, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestStorageError_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := StorageError("AddTodo", cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "AddTodo: connection refused", err.Error())
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", ErrInvalidArgument, "invalid argument"},
		{"op and message", InvalidArgument("EditTodo", "todo is required"), "EditTodo: todo is required"},
		{"message only", &Error{Kind: KindNotFound, Message: "Todo not found"}, "Todo not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
