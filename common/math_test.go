package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"inside", 5, 5},
		{"below", -1, 0},
		{"above", 200, 100},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clamp(tc.v, 0, 100))
		})
	}
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 10.0, Lerp(10, 20, 0))
}
