package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelectionSet()

	s.Toggle("a")
	assert.True(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())

	s.Toggle("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 0, s.Len())
}

func TestSelectAllThenClear(t *testing.T) {
	s := NewSelectionSet()
	visible := []string{"a", "b", "c"}

	s.SelectAll(visible)
	assert.Equal(t, 3, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestSelectAllTogglesWhenAllSelected(t *testing.T) {
	s := NewSelectionSet()
	visible := []string{"a", "b"}

	s.SelectAll(visible)
	assert.Equal(t, 2, s.Len())

	// All visible already selected: acts as a deselect for those ids
	s.SelectAll(visible)
	assert.Equal(t, 0, s.Len())
}

func TestSelectAllKeepsOffPageSelections(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle("other-page-id")

	s.SelectAll([]string{"a", "b"})
	s.SelectAll([]string{"a", "b"})

	assert.True(t, s.Has("other-page-id"))
	assert.False(t, s.Has("a"))
}

func TestSelectAllEmptyVisible(t *testing.T) {
	s := NewSelectionSet()
	s.SelectAll(nil)
	assert.Equal(t, 0, s.Len())
}
