package graph

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/Tomlord1122/gql-todo/internal/domain"
	"github.com/Tomlord1122/gql-todo/internal/validator"
)

// todoInput mirrors the TodoInput GraphQL type.
type todoInput struct {
	TodoID      int    `mapstructure:"todoId"`
	UserID      int    `mapstructure:"userId"`
	Title       string `mapstructure:"title" validate:"max=200"`
	Description string `mapstructure:"description" validate:"max=1000"`
	Status      *bool  `mapstructure:"status"`
}

func (in todoInput) toDomain() *domain.Todo {
	return &domain.Todo{
		TodoID:      in.TodoID,
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}
}

// todoArg decodes and validates a TodoInput argument. An absent or null
// argument yields nil so the repository can reject it. A nil v skips
// validation; deletes only read the key fields.
func todoArg(v *validator.Validator, op string, args map[string]interface{}, name string) (*domain.Todo, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, nil
	}

	var in todoInput
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &in,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &domain.Error{Kind: domain.KindInvalidArgument, Op: op, Message: fmt.Sprintf("malformed %s", name), Err: err}
	}
	if v == nil {
		return in.toDomain(), nil
	}
	if err := v.Validate(in); err != nil {
		return nil, &domain.Error{Kind: domain.KindInvalidArgument, Op: op, Err: err}
	}
	return in.toDomain(), nil
}

// intArg reads an optional Int argument; absent means 0.
func intArg(args map[string]interface{}, name string) int {
	if v, ok := args[name].(int); ok {
		return v
	}
	return 0
}
