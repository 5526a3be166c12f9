package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	p := New(0, 0)
	assert.Equal(t, Page{Number: 1, PerPage: DefaultPerPage}, p)
	assert.Equal(t, 0, p.Offset())

	assert.Equal(t, 20, New(3, 10).Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
