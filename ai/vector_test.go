package ai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float32
	}{
		{
			name:     "identical vectors",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{1.0, 2.0, 3.0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1.0, 0.0},
			b:        []float32{0.0, 1.0},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1.0, 0.0},
			b:        []float32{-1.0, 0.0},
			expected: -1.0,
		},
		{
			name:     "scaled vectors keep similarity",
			a:        []float32{1.0, 2.0},
			b:        []float32{10.0, 20.0},
			expected: 1.0,
		},
		{
			name:     "45 degrees",
			a:        []float32{1.0, 0.0},
			b:        []float32{1.0, 1.0},
			expected: float32(1.0 / math.Sqrt(2)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestCosineSimilarity_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
	}{
		{name: "zero vector left", a: []float32{0, 0, 0}, b: []float32{1, 2, 3}},
		{name: "zero vector right", a: []float32{1, 2, 3}, b: []float32{0, 0, 0}},
		{name: "both zero", a: []float32{0, 0}, b: []float32{0, 0}},
		{name: "dimension mismatch", a: []float32{1, 2}, b: []float32{1, 2, 3}},
		{name: "empty left", a: []float32{}, b: []float32{1}},
		{name: "both empty", a: []float32{}, b: []float32{}},
		{name: "both nil", a: nil, b: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			assert.Equal(t, float32(0.0), got, "degenerate input must score 0.0")
			assert.False(t, math.IsNaN(float64(got)), "similarity must never be NaN")
		})
	}
}

func TestCosineSimilarity_Range(t *testing.T) {
	// Similarity stays in [-1, 1] for arbitrary inputs.
	vectors := [][]float32{
		{0.5, -0.3, 0.8},
		{100, 200, -50},
		{1e-8, 1e-8, 1e-8},
		{-1, -1, -1},
	}

	for _, a := range vectors {
		for _, b := range vectors {
			got := CosineSimilarity(a, b)
			assert.GreaterOrEqual(t, got, float32(-1.0001))
			assert.LessOrEqual(t, got, float32(1.0001))
			assert.False(t, math.IsNaN(float64(got)))
		}
	}
}

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name     string
		input    []float32
		expected []float32
	}{
		{
			name:     "unit vector remains unchanged",
			input:    []float32{1.0, 0.0, 0.0},
			expected: []float32{1.0, 0.0, 0.0},
		},
		{
			name:     "scale non-unit vector",
			input:    []float32{3.0, 4.0},
			expected: []float32{0.6, 0.8},
		},
		{
			name:     "negative values",
			input:    []float32{-1.0, 1.0},
			expected: []float32{-1.0 / float32(math.Sqrt(2)), 1.0 / float32(math.Sqrt(2))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeVector(tt.input)
			require.Equal(t, len(tt.expected), len(result), "vector length mismatch")

			for i := range result {
				assert.InDelta(t, tt.expected[i], result[i], 1e-6, "element %d", i)
			}

			// Verify magnitude is 1.0
			var magnitude float32
			for _, v := range result {
				magnitude += v * v
			}
			magnitude = float32(math.Sqrt(float64(magnitude)))
			assert.InDelta(t, 1.0, magnitude, 1e-6, "magnitude should be 1.0")
		})
	}
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	input := []float32{0.0, 0.0, 0.0}
	result := NormalizeVector(input)

	// Zero vector should return zero vector (can't normalize)
	for i, v := range result {
		assert.Equal(t, float32(0.0), v, "element %d should be 0", i)
	}
}

func TestNormalizeVector_EmptyVector(t *testing.T) {
	input := []float32{}
	result := NormalizeVector(input)
	assert.Empty(t, result, "empty vector should return empty vector")
}
