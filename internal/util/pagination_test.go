package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		page, size       int
		wantFrom, wantLm int
	}{
		{"defaults", 0, 0, 0, DefaultPageSize},
		{"second page", 2, 10, 10, 10},
		{"capped", 1, 1000, 0, MaxPageSize},
		{"negative page", -3, 5, 0, 5},
		{"huge page", math.MaxInt, 100, (MaxPage - 1) * 100, 100},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			from, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantLm, limit)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestMeta(t *testing.T) {
	t.Parallel()

	m := NewMeta(2, 10, 25)
	assert.Equal(t, int64(3), m.TotalPages)
	assert.True(t, m.HasPrev)
	assert.True(t, m.HasNext)

	om := NewOrderMeta(3, 10, 25)
	assert.Equal(t, 3, om.CurrentPage)
	assert.Equal(t, int64(25), om.TotalOrders)
	assert.False(t, om.HasNext)
	assert.True(t, om.HasPrev)

	empty := NewOrderMeta(1, 10, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestMeta_HugePage(t *testing.T) {
	t.Parallel()

	m := NewMeta(math.MaxInt, MaxPageSize, 25)
	assert.Equal(t, MaxPage, m.Page)
	assert.False(t, m.HasNext)
	assert.True(t, m.HasPrev)
}
