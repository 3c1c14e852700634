package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortDirection(t *testing.T) {
	assert.Equal(t, SortDesc, ParseSortDirection("desc"))
	assert.Equal(t, SortDesc, ParseSortDirection(" DESC "))
	assert.Equal(t, SortAsc, ParseSortDirection("asc"))
	assert.Equal(t, SortAsc, ParseSortDirection(""))
	assert.Equal(t, SortAsc, ParseSortDirection("descending"))
}

func TestWindow(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}

	assert.Equal(t, []int{0, 1, 2}, Window(items, PageRequest{Page: 0, Size: 3}))
	assert.Equal(t, []int{6}, Window(items, PageRequest{Page: 2, Size: 3}))
	assert.Empty(t, Window(items, PageRequest{Page: 3, Size: 3}))
	assert.Empty(t, Window(items, PageRequest{Page: 1000, Size: 3}))
	assert.Equal(t, items, Window(items, PageRequest{}))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{6}, PageRequest{Page: 2, Size: 3}, 7)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(7), p.TotalItems)
	assert.Equal(t, 2, p.Page)

	empty := NewPage[int](nil, PageRequest{Page: 5, Size: 3}, 7)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	all := NewPage([]int{1, 2}, PageRequest{}, 2)
	assert.Equal(t, 1, all.TotalPages)
	assert.Equal(t, 2, all.Size)
}

func TestDuplicateKeyErrorIs(t *testing.T) {
	err := fmt.Errorf("insert: %w", &DuplicateKeyError{Field: "email"})
	assert.True(t, errors.Is(err, ErrDuplicateKey))
	assert.False(t, errors.Is(err, ErrNotFound))

	var dup *DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)
}
