// Package graph exposes the todo repository as a GraphQL schema.
//
// Queries live under Query.todoQuery and mutations under
// Mutation.todoMutation. Resolvers read the request-scoped repository from
// the context, see WithRepository.
package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/Tomlord1122/gql-todo/internal/domain"
	"github.com/Tomlord1122/gql-todo/internal/repository"
	"github.com/Tomlord1122/gql-todo/internal/validator"
)

type ctxKey struct{}

// WithRepository binds the repository used by resolvers for one request.
func WithRepository(ctx context.Context, repo repository.TodoRepository) context.Context {
	return context.WithValue(ctx, ctxKey{}, repo)
}

var errNoRepository = errors.New("graph: no repository bound to request context")

func repositoryFrom(ctx context.Context) (repository.TodoRepository, error) {
	repo, ok := ctx.Value(ctxKey{}).(repository.TodoRepository)
	if !ok || repo == nil {
		return nil, errNoRepository
	}
	return repo, nil
}

type resolver struct {
	validate *validator.Validator
	logger   *slog.Logger
}

// NewSchema builds the GraphQL schema.
func NewSchema(logger *slog.Logger) (graphql.Schema, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &resolver{validate: validator.New(), logger: logger}

	todoQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "TodoQuery",
		Fields: graphql.Fields{
			"alltodos": &graphql.Field{
				Type:    graphql.NewList(todoType),
				Resolve: r.allTodos,
			},
			"alltodosofuser": &graphql.Field{
				Type: graphql.NewList(todoType),
				Args: graphql.FieldConfigArgument{
					"userId": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.allTodosOfUser,
			},
		},
	})

	todoMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "TodoMutation",
		Fields: graphql.Fields{
			"addTodo": &graphql.Field{
				Type: todoType,
				Args: graphql.FieldConfigArgument{
					"todo": &graphql.ArgumentConfig{Type: todoInputType},
				},
				Resolve: r.addTodo,
			},
			"updateTodo": &graphql.Field{
				Type: todoType,
				Args: graphql.FieldConfigArgument{
					"userId":      &graphql.ArgumentConfig{Type: graphql.Int},
					"updatedTodo": &graphql.ArgumentConfig{Type: todoInputType},
				},
				Resolve: r.updateTodo,
			},
			"deleteTodo": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"userId":       &graphql.ArgumentConfig{Type: graphql.Int},
					"todoToDelete": &graphql.ArgumentConfig{Type: todoInputType},
				},
				Resolve: r.deleteTodo,
			},
		},
	})

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"todoQuery": &graphql.Field{Type: todoQuery, Resolve: namespace},
		},
	})
	rootMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"todoMutation": &graphql.Field{Type: todoMutation, Resolve: namespace},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery,
		Mutation: rootMutation,
	})
}

func namespace(graphql.ResolveParams) (interface{}, error) {
	return struct{}{}, nil
}

func (r *resolver) allTodos(p graphql.ResolveParams) (interface{}, error) {
	repo, err := repositoryFrom(p.Context)
	if err != nil {
		return nil, r.fail(p, err)
	}
	todos, err := repo.GetAllTodos(p.Context)
	if err != nil {
		return nil, r.fail(p, err)
	}
	return todos, nil
}

func (r *resolver) allTodosOfUser(p graphql.ResolveParams) (interface{}, error) {
	repo, err := repositoryFrom(p.Context)
	if err != nil {
		return nil, r.fail(p, err)
	}
	todos, err := repo.GetAllTodosOfUser(p.Context, intArg(p.Args, "userId"))
	if err != nil {
		return nil, r.fail(p, err)
	}
	return todos, nil
}

func (r *resolver) addTodo(p graphql.ResolveParams) (interface{}, error) {
	repo, err := repositoryFrom(p.Context)
	if err != nil {
		return nil, r.fail(p, err)
	}
	todo, err := todoArg(r.validate, "addTodo", p.Args, "todo")
	if err != nil {
		return nil, r.fail(p, err)
	}
	added, err := repo.AddTodo(p.Context, todo)
	if err != nil {
		return nil, r.fail(p, err)
	}
	return added, nil
}

func (r *resolver) updateTodo(p graphql.ResolveParams) (interface{}, error) {
	repo, err := repositoryFrom(p.Context)
	if err != nil {
		return nil, r.fail(p, err)
	}
	todo, err := todoArg(r.validate, "updateTodo", p.Args, "updatedTodo")
	if err != nil {
		return nil, r.fail(p, err)
	}
	updated, err := repo.EditTodo(p.Context, intArg(p.Args, "userId"), todo)
	if err != nil {
		return nil, r.fail(p, err)
	}
	return updated, nil
}

func (r *resolver) deleteTodo(p graphql.ResolveParams) (interface{}, error) {
	repo, err := repositoryFrom(p.Context)
	if err != nil {
		return nil, r.fail(p, err)
	}
	todo, err := todoArg(nil, "deleteTodo", p.Args, "todoToDelete")
	if err != nil {
		return nil, r.fail(p, err)
	}
	deleted, err := repo.DeleteTodo(p.Context, intArg(p.Args, "userId"), todo)
	if err != nil {
		return nil, r.fail(p, err)
	}
	return deleted, nil
}

// fail logs server-side failures and wraps err for the client.
func (r *resolver) fail(p graphql.ResolveParams, err error) error {
	switch domain.KindOf(err) {
	case domain.KindStorage, domain.KindUnknown:
		r.logger.ErrorContext(p.Context, "resolver failed",
			slog.String("field", p.Info.FieldName),
			slog.String("error", err.Error()))
	default:
		r.logger.DebugContext(p.Context, "resolver rejected request",
			slog.String("field", p.Info.FieldName),
			slog.String("error", err.Error()))
	}
	return &resolverError{err: err}
}
