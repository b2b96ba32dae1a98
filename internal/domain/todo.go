package domain

import (
	"fmt"
	"unicode/utf8"
)

// Column limits of the todos table.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Todo is a task record owned by a user.
type Todo struct {
	TodoID      int    `gorm:"column:todo_id;primaryKey;autoIncrement" json:"todoId"`
	UserID      int    `gorm:"column:user_id;not null;index" json:"userId"`
	Title       string `gorm:"column:title;size:200" json:"title"`
	Description string `gorm:"column:description;size:1000" json:"description"`
	Status      *bool  `gorm:"column:status;default:false" json:"status"`
}

// TableName pins the table name used by GORM.
func (Todo) TableName() string {
	return "todos"
}

// CheckConstraints reports whether t fits the column limits of the table.
// Lengths are counted in characters, not bytes.
func (t Todo) CheckConstraints() error {
	if n := utf8.RuneCountInString(t.Title); n > MaxTitleLength {
		return fmt.Errorf("title is %d characters long, max is %d", n, MaxTitleLength)
	}
	if n := utf8.RuneCountInString(t.Description); n > MaxDescriptionLength {
		return fmt.Errorf("description is %d characters long, max is %d", n, MaxDescriptionLength)
	}
	return nil
}

// SameContent reports whether the mutable fields of t and o are equal.
func (t Todo) SameContent(o Todo) bool {
	if t.Title != o.Title || t.Description != o.Description {
		return false
	}
	switch {
	case t.Status == nil && o.Status == nil:
		return true
	case t.Status == nil || o.Status == nil:
		return false
	default:
		return *t.Status == *o.Status
	}
}

// Clone returns a deep copy of t.
func (t Todo) Clone() Todo {
	if t.Status != nil {
		status := *t.Status
		t.Status = &status
	}
	return t
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
