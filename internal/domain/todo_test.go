package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTodo_CheckConstraints(t *testing.T) {
	tests := []struct {
		name    string
		todo    Todo
		wantErr bool
	}{
		{"empty", Todo{}, false},
		{"title at limit", Todo{Title: strings.Repeat("a", MaxTitleLength)}, false},
		{"title over limit", Todo{Title: strings.Repeat("a", MaxTitleLength+1)}, true},
		{"multibyte title at limit", Todo{Title: strings.Repeat("é", MaxTitleLength)}, false},
		{"description over limit", Todo{Description: strings.Repeat("d", MaxDescriptionLength+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.todo.CheckConstraints()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTodo_SameContent(t *testing.T) {
	base := Todo{TodoID: 1, UserID: 1, Title: "A", Description: "d", Status: Bool(false)}

	assert.True(t, base.SameContent(base.Clone()))
	assert.True(t, base.SameContent(Todo{TodoID: 9, UserID: 9, Title: "A", Description: "d", Status: Bool(false)}))
	assert.False(t, base.SameContent(Todo{Title: "A", Description: "d"}))
	assert.False(t, base.SameContent(Todo{Title: "A", Description: "d", Status: Bool(true)}))
	assert.False(t, base.SameContent(Todo{Title: "B", Description: "d", Status: Bool(false)}))
}

func TestTodo_CloneCopiesStatus(t *testing.T) {
	orig := Todo{Status: Bool(false)}
	cp := orig.Clone()
	*cp.Status = true

	assert.False(t, *orig.Status)
}
