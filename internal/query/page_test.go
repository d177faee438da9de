package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name               string
		page, limit        int
		total              int64
		wantPages          int
		wantNext, wantPrev bool
	}{
		{"empty", 1, 10, 0, 0, false, false},
		{"exact fit", 1, 10, 10, 1, false, false},
		{"one over", 1, 10, 11, 2, true, false},
		{"middle", 2, 10, 25, 3, true, true},
		{"last", 3, 10, 25, 3, false, true},
		{"beyond last", 5, 10, 25, 3, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage([]int{}, tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantNext, p.HasNext)
			assert.Equal(t, tt.wantPrev, p.HasPrev)
		})
	}
}

func TestNewPage_NilDataBecomesEmpty(t *testing.T) {
	p := NewPage[string](nil, 1, 10, 0)
	assert.NotNil(t, p.Data)
	assert.Len(t, p.Data, 0)
}

func TestMapPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 1, 2, 3)
	m := MapPage(p, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, m.Data)
	assert.Equal(t, p.TotalPages, m.TotalPages)
	assert.True(t, m.HasNext)
}
