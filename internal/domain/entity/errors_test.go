package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "title error",
			field:    "title",
			message:  "Please provide a title",
			expected: "validation error on field 'title': Please provide a title",
		},
		{
			name:     "form level error",
			field:    FormField,
			message:  "Invalid security token, please try again.",
			expected: "validation error on field '_form': Invalid security token, please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationErrors(t *testing.T) {
	ves := ValidationErrors{
		{Field: "title", Message: "a"},
		{Field: "content", Message: "b"},
		{Field: "title", Message: "c"},
	}

	assert.Equal(t, []string{"a", "c"}, ves.For("title"))
	assert.Nil(t, ves.For("missing"))
	assert.Equal(t, map[string][]string{"title": {"a", "c"}, "content": {"b"}}, ves.Fields())
	assert.Contains(t, ves.Error(), "field 'content': b")

	wrapped := fmt.Errorf("create article: %w", ves)
	assert.True(t, errors.Is(wrapped, ErrValidationFailed))

	got, ok := AsValidationErrors(wrapped)
	assert.True(t, ok)
	assert.Len(t, got, 3)

	_, ok = AsValidationErrors(errors.New("boom"))
	assert.False(t, ok)
}
