package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/Tomlord1122/gql-todo/internal/domain"
)

var todoType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "Todo",
	Description: "A task owned by a user.",
	Fields: graphql.Fields{
		"todoId":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"userId":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":       &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"status": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				t := sourceTodo(p.Source)
				if t == nil || t.Status == nil {
					return nil, nil
				}
				return *t.Status, nil
			},
		},
	},
})

var todoInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "TodoInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"todoId":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"userId":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"status":      &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	},
})

func sourceTodo(src interface{}) *domain.Todo {
	switch t := src.(type) {
	case *domain.Todo:
		return t
	case domain.Todo:
		return &t
	default:
		return nil
	}
}
