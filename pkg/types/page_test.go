package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParamsNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         PageParams
		wantPage   int
		wantLimit  int
		wantOffset uint64
	}{
		{"zero values get defaults", PageParams{}, 1, 20, 0},
		{"negative page clamps to one", PageParams{Page: -3, Limit: 10}, 1, 10, 0},
		{"limit over the cap resets to default", PageParams{Page: 2, Limit: 500}, 2, 20, 20},
		{"in-range values pass through", PageParams{Page: 3, Limit: 25}, 3, 25, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			assert.Equal(t, tc.wantPage, got.Page)
			assert.Equal(t, tc.wantLimit, got.Limit)
			assert.Equal(t, tc.wantOffset, got.Offset())
		})
	}
}
