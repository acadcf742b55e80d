package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pages(links []PageLink) []int {
	out := make([]int, 0, len(links))
	for _, l := range links {
		if l.Ellipsis {
			out = append(out, -1)
		} else {
			out = append(out, l.Page)
		}
	}
	return out
}

func activePage(links []PageLink) int {
	for _, l := range links {
		if l.Active {
			return l.Page
		}
	}
	return 0
}

func TestPaginationWindow(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected []int
		active   int
	}{
		{"single page", 1, 1, []int{1}, 1},
		{"three pages all shown", 2, 3, []int{1, 2, 3}, 2},
		{"exactly five pages", 3, 5, []int{1, 2, 3, 4, 5}, 3},
		{"start of long range", 1, 20, []int{1, 2, 3, 4, 5, -1, 20}, 1},
		{"second page of long range", 2, 20, []int{1, 2, 3, 4, 5, -1, 20}, 2},
		{"middle of long range", 10, 20, []int{1, -1, 8, 9, 10, 11, 12, -1, 20}, 10},
		{"near end of long range", 19, 20, []int{1, -1, 16, 17, 18, 19, 20}, 19},
		{"last page", 20, 20, []int{1, -1, 16, 17, 18, 19, 20}, 20},
		{"window adjacent to first page", 3, 20, []int{1, 2, 3, 4, 5, -1, 20}, 3},
		{"no ellipsis when window touches edges", 4, 7, []int{1, 2, 3, 4, 5, 6, 7}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := PaginationWindow(tt.current, tt.total)
			assert.Equal(t, tt.expected, pages(links))
			assert.Equal(t, tt.active, activePage(links))
		})
	}
}

func TestPaginationWindowClampsInput(t *testing.T) {
	assert.Equal(t, []int{1}, pages(PaginationWindow(5, 0)))
	assert.Equal(t, 3, activePage(PaginationWindow(99, 3)))
	assert.Equal(t, 1, activePage(PaginationWindow(-2, 3)))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 1, TotalPages(5, 0))
}
