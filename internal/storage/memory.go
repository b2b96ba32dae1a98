package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Tomlord1122/gql-todo/internal/domain"
)

// MemoryStore is an in-process todos table. It enforces the same column
// limits as the SQL schema and is shared by every context it hands out.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[int]domain.Todo
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int]domain.Todo)}
}

func (s *MemoryStore) NewContext() Context {
	return &memoryContext{store: s, tracker: newTracker()}
}

// Len returns the number of stored rows.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *MemoryStore) scan(q Query) []*domain.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Todo, 0, len(s.rows))
	for _, row := range s.rows {
		if q.Match(row) {
			cp := row.Clone()
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TodoID < out[j].TodoID })
	return out
}

type memoryContext struct {
	tracker
	store *MemoryStore
}

func (c *memoryContext) All(ctx context.Context) ([]*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StorageError("all", err)
	}
	return c.track(c.store.scan(Query{})), nil
}

func (c *memoryContext) Where(ctx context.Context, q Query) ([]*domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StorageError("where", err)
	}
	return c.track(c.store.scan(q)), nil
}

// Flush validates the whole batch before touching the table, so a failing
// batch leaves no trace.
func (c *memoryContext) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		c.rollback(nil)
		return domain.StorageError("flush", err)
	}
	if !c.pending() {
		return nil
	}

	if err := c.apply(); err != nil {
		c.rollback(nil)
		return domain.StorageError("flush", err)
	}
	c.commit()
	return nil
}

// apply writes the staged batch to the table, or nothing when any row in it
// is invalid.
func (c *memoryContext) apply() error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	modified := c.modified()
	claimed := make(map[int]bool)
	for _, todo := range c.added {
		if err := todo.CheckConstraints(); err != nil {
			return err
		}
		if todo.TodoID == 0 {
			continue
		}
		if _, exists := s.rows[todo.TodoID]; exists || claimed[todo.TodoID] {
			return fmt.Errorf("duplicate key todo_id=%d", todo.TodoID)
		}
		claimed[todo.TodoID] = true
	}
	for _, todo := range modified {
		if err := todo.CheckConstraints(); err != nil {
			return err
		}
	}

	for _, todo := range c.added {
		if todo.TodoID == 0 {
			s.nextID++
			for claimed[s.nextID] || s.rows[s.nextID].TodoID != 0 {
				s.nextID++
			}
			todo.TodoID = s.nextID
		} else if todo.TodoID > s.nextID {
			s.nextID = todo.TodoID
		}
		if todo.Status == nil {
			todo.Status = domain.Bool(false)
		}
		s.rows[todo.TodoID] = todo.Clone()
	}

	// Last flush wins; rows deleted by another context stay deleted.
	for _, todo := range modified {
		row, ok := s.rows[todo.TodoID]
		if !ok {
			continue
		}
		upd := todo.Clone()
		row.Title, row.Description, row.Status = upd.Title, upd.Description, upd.Status
		s.rows[todo.TodoID] = row
	}

	for id := range c.removed {
		delete(s.rows, id)
	}
	return nil
}
