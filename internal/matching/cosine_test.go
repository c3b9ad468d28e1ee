package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{"Identical unit vectors", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"Orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"Opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"Length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"Empty vectors", nil, nil, 0.0},
		{"Zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineScaleInvariant(t *testing.T) {
	a := []float32{3, 4}
	b := []float32{6, 8}
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-6)
}
