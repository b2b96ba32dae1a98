package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/Tomlord1122/gql-todo/internal/domain"
)

// GormProvider opens contexts backed by a GORM connection.
type GormProvider struct {
	db *gorm.DB
}

func NewGormProvider(db *gorm.DB) *GormProvider {
	return &GormProvider{db: db}
}

func (p *GormProvider) NewContext() Context {
	return &gormContext{db: p.db, tracker: newTracker()}
}

// gormContext implements Context using GORM
type gormContext struct {
	tracker
	db *gorm.DB
}

func (c *gormContext) All(ctx context.Context) ([]*domain.Todo, error) {
	var todos []*domain.Todo
	if err := c.db.WithContext(ctx).Order("todo_id").Find(&todos).Error; err != nil {
		return nil, domain.StorageError("all", err)
	}
	return c.track(todos), nil
}

func (c *gormContext) Where(ctx context.Context, q Query) ([]*domain.Todo, error) {
	tx := c.db.WithContext(ctx)
	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}
	if q.TodoID != nil {
		tx = tx.Where("todo_id = ?", *q.TodoID)
	}

	var todos []*domain.Todo
	if err := tx.Order("todo_id").Find(&todos).Error; err != nil {
		return nil, domain.StorageError("where", err)
	}
	return c.track(todos), nil
}

// Flush writes inserts, then updates, then deletes inside one transaction.
// Constraint checks are left to the database.
func (c *gormContext) Flush(ctx context.Context) error {
	if !c.pending() {
		return nil
	}

	assigned := make(map[*domain.Todo]int, len(c.added))
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, todo := range c.added {
			assigned[todo] = todo.TodoID
			if todo.Status == nil {
				todo.Status = domain.Bool(false)
			}
			if err := tx.Create(todo).Error; err != nil {
				return err
			}
		}

		for _, todo := range c.modified() {
			err := tx.Model(&domain.Todo{}).
				Where("todo_id = ?", todo.TodoID).
				Updates(map[string]any{
					"title":       todo.Title,
					"description": todo.Description,
					"status":      todo.Status,
				}).Error
			if err != nil {
				return err
			}
		}

		for id := range c.removed {
			if err := tx.Delete(&domain.Todo{}, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.rollback(assigned)
		return domain.StorageError("flush", err)
	}

	c.commit()
	return nil
}
