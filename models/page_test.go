package models_test

import (
	"testing"

	"bookstore-web/models"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []int
	}{
		{"first page", 1, 10, []int{1, 2, 3, 4, 5}},
		{"centred", 6, 10, []int{4, 5, 6, 7, 8}},
		{"last page", 10, 10, []int{6, 7, 8, 9, 10}},
		{"fewer pages than window", 2, 3, []int{1, 2, 3}},
		{"current out of range", 42, 4, []int{1, 2, 3, 4}},
		{"no pages", 1, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.PageWindow(tt.current, tt.total, 5))
		})
	}
}

func TestPage_HasPages(t *testing.T) {
	assert.False(t, models.Page[int]{TotalPages: 1, CurrentPage: 1}.HasPages())

	p := models.Page[int]{TotalPages: 3, CurrentPage: 3}
	assert.True(t, p.HasPages())
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestSortFields(t *testing.T) {
	field, dir := models.SortFields(models.SortLatest)
	assert.Equal(t, "createdAt", field)
	assert.Equal(t, "desc", dir)

	field, dir = models.SortFields("bogus")
	assert.Equal(t, "id", field)
	assert.Equal(t, "asc", dir)
}
