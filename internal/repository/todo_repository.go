package repository

import (
	"context"

	"github.com/Tomlord1122/gql-todo/internal/domain"
	"github.com/Tomlord1122/gql-todo/internal/storage"
)

// TodoRepository is the only place where todo mutation rules live.
type TodoRepository interface {
	// GetAllTodos returns every todo, unfiltered.
	GetAllTodos(ctx context.Context) ([]domain.Todo, error)

	// GetAllTodosOfUser returns the todos owned by userID. A user with no
	// todos gets an empty slice.
	GetAllTodosOfUser(ctx context.Context, userID int) ([]domain.Todo, error)

	// AddTodo persists todo and returns it with its new id. Ownership is
	// not checked on creation.
	AddTodo(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)

	// EditTodo overwrites title, description and status of the todo
	// identified by (userID, newTodo.TodoID).
	EditTodo(ctx context.Context, userID int, newTodo *domain.Todo) (*domain.Todo, error)

	// DeleteTodo removes the todo identified by (userID, todo.TodoID).
	// It returns false, not an error, when there is nothing to delete.
	DeleteTodo(ctx context.Context, userID int, todo *domain.Todo) (bool, error)
}

// todoRepository enforces the rules on top of a request-scoped storage context.
type todoRepository struct {
	store storage.Context
}

// NewTodoRepository binds a repository to one storage context.
func NewTodoRepository(store storage.Context) TodoRepository {
	return &todoRepository{store: store}
}

func (r *todoRepository) GetAllTodos(ctx context.Context) ([]domain.Todo, error) {
	todos, err := r.store.All(ctx)
	if err != nil {
		return nil, storageErr("GetAllTodos", err)
	}
	return values(todos), nil
}

func (r *todoRepository) GetAllTodosOfUser(ctx context.Context, userID int) ([]domain.Todo, error) {
	todos, err := r.store.Where(ctx, storage.ByOwner(userID))
	if err != nil {
		return nil, storageErr("GetAllTodosOfUser", err)
	}
	return values(todos), nil
}

func (r *todoRepository) AddTodo(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	const op = "AddTodo"
	if todo == nil {
		return nil, domain.InvalidArgument(op, "todo is required")
	}

	// The id always comes from storage.
	newTodo := todo.Clone()
	newTodo.TodoID = 0

	r.store.Add(&newTodo)
	if err := r.store.Flush(ctx); err != nil {
		return nil, storageErr(op, err)
	}
	return &newTodo, nil
}

func (r *todoRepository) EditTodo(ctx context.Context, userID int, newTodo *domain.Todo) (*domain.Todo, error) {
	const op = "EditTodo"
	if newTodo == nil {
		return nil, domain.InvalidArgument(op, "todo is required")
	}
	if newTodo.UserID != userID {
		return nil, domain.Unauthorized(op, "Authentication failed")
	}

	existing, err := r.findOwned(ctx, userID, newTodo.TodoID)
	if err != nil {
		return nil, storageErr(op, err)
	}
	if existing == nil {
		return nil, domain.NotFound(op, "Todo not found")
	}

	upd := newTodo.Clone()
	existing.Title = upd.Title
	existing.Description = upd.Description
	existing.Status = upd.Status
	if err := r.store.Flush(ctx); err != nil {
		return nil, storageErr(op, err)
	}

	result := existing.Clone()
	return &result, nil
}

func (r *todoRepository) DeleteTodo(ctx context.Context, userID int, todo *domain.Todo) (bool, error) {
	const op = "DeleteTodo"
	if todo == nil {
		return false, domain.InvalidArgument(op, "todo is required")
	}
	if todo.UserID != userID {
		return false, domain.Unauthorized(op, "Authentication failed")
	}

	existing, err := r.findOwned(ctx, userID, todo.TodoID)
	if err != nil {
		return false, storageErr(op, err)
	}
	if existing == nil {
		return false, nil
	}

	r.store.Remove(existing)
	if err := r.store.Flush(ctx); err != nil {
		return false, storageErr(op, err)
	}
	return true, nil
}

// findOwned returns the todo matching (userID, todoID), or nil when none does.
func (r *todoRepository) findOwned(ctx context.Context, userID, todoID int) (*domain.Todo, error) {
	found, err := r.store.Where(ctx, storage.ByOwnerAndID(userID, todoID))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

// storageErr prefixes storage failures with op and tags untyped ones as
// storage errors. Other typed errors pass through.
func storageErr(op string, err error) error {
	switch domain.KindOf(err) {
	case domain.KindUnknown, domain.KindStorage:
		return domain.StorageError(op, err)
	default:
		return err
	}
}

func values(todos []*domain.Todo) []domain.Todo {
	out := make([]domain.Todo, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Clone())
	}
	return out
}
