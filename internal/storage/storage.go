// Package storage provides request-scoped access to the todos table.
//
// A Context behaves like a unit of work: rows returned by All and Where are
// tracked, so mutating them stages an update; Add and Remove stage inserts and
// deletes; Flush commits everything staged in a single transaction. A Context
// is not safe for concurrent use and should live for one request only. Use a
// Provider to obtain a fresh one.
package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tomlord1122/gql-todo/internal/domain"
)

// Context is a unit of work over the todos table.
type Context interface {
	// All returns every todo ordered by todo id.
	All(ctx context.Context) ([]*domain.Todo, error)
	// Where returns the todos matching q ordered by todo id.
	Where(ctx context.Context, q Query) ([]*domain.Todo, error)
	// Add stages an insert. The todo id is assigned on Flush.
	Add(todo *domain.Todo)
	// Remove stages a delete.
	Remove(todo *domain.Todo)
	// Flush commits staged changes atomically.
	Flush(ctx context.Context) error
}

// Provider hands out request-scoped contexts.
type Provider interface {
	NewContext() Context
}

// Query filters todos by owner and/or id. Nil fields match anything.
type Query struct {
	UserID *int
	TodoID *int
}

// ByOwner matches the todos of one user.
func ByOwner(userID int) Query {
	return Query{UserID: &userID}
}

// ByOwnerAndID matches a single todo scoped to its owner.
func ByOwnerAndID(userID, todoID int) Query {
	return Query{UserID: &userID, TodoID: &todoID}
}

// Match reports whether t satisfies q.
func (q Query) Match(t domain.Todo) bool {
	if q.UserID != nil && t.UserID != *q.UserID {
		return false
	}
	if q.TodoID != nil && t.TodoID != *q.TodoID {
		return false
	}
	return true
}

// SQLState returns the Postgres error code carried by err, or "" when err
// did not come from Postgres.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

type entry struct {
	entity   *domain.Todo
	snapshot domain.Todo
}

// tracker holds the staged state shared by every Context implementation.
type tracker struct {
	tracked map[int]*entry
	added   []*domain.Todo
	removed map[int]*domain.Todo
}

func newTracker() tracker {
	return tracker{
		tracked: make(map[int]*entry),
		removed: make(map[int]*domain.Todo),
	}
}

// track returns the tracked instance for every loaded row, registering new ones.
func (t *tracker) track(rows []*domain.Todo) []*domain.Todo {
	out := make([]*domain.Todo, 0, len(rows))
	for _, row := range rows {
		if e, ok := t.tracked[row.TodoID]; ok {
			out = append(out, e.entity)
			continue
		}
		t.tracked[row.TodoID] = &entry{entity: row, snapshot: row.Clone()}
		out = append(out, row)
	}
	return out
}

func (t *tracker) Add(todo *domain.Todo) {
	if todo == nil {
		return
	}
	t.added = append(t.added, todo)
}

func (t *tracker) Remove(todo *domain.Todo) {
	if todo == nil {
		return
	}
	for i, a := range t.added {
		if a == todo {
			t.added = append(t.added[:i], t.added[i+1:]...)
			return
		}
	}
	t.removed[todo.TodoID] = todo
}

// modified returns tracked entities whose mutable fields changed since load.
func (t *tracker) modified() []*domain.Todo {
	var out []*domain.Todo
	for id, e := range t.tracked {
		if _, gone := t.removed[id]; gone {
			continue
		}
		if !e.entity.SameContent(e.snapshot) {
			out = append(out, e.entity)
		}
	}
	return out
}

func (t *tracker) pending() bool {
	return len(t.added) > 0 || len(t.removed) > 0 || len(t.modified()) > 0
}

// commit folds a successful flush into the tracked state.
func (t *tracker) commit() {
	for id := range t.removed {
		delete(t.tracked, id)
	}
	for _, e := range t.tracked {
		e.snapshot = e.entity.Clone()
	}
	for _, a := range t.added {
		t.tracked[a.TodoID] = &entry{entity: a, snapshot: a.Clone()}
	}
	t.added = nil
	t.removed = make(map[int]*domain.Todo)
}

// rollback discards everything staged by a failed flush. Tracked rows get
// their loaded values back and ids handed out to inserts are undone.
func (t *tracker) rollback(assigned map[*domain.Todo]int) {
	for todo, id := range assigned {
		todo.TodoID = id
	}
	for _, e := range t.tracked {
		*e.entity = e.snapshot.Clone()
	}
	t.added = nil
	t.removed = make(map[int]*domain.Todo)
}
