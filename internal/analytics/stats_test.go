package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{200.0 / 3, 66.67},
		{0.125, 0.13},
		{-0.125, -0.13},
		{12.3449, 12.34},
		{50, 50},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round2(tt.in), "round2(%v)", tt.in)
	}
}

func TestPassRate(t *testing.T) {
	assert.Equal(t, 66.67, passRate(2, 3))
	assert.Equal(t, 100.0, passRate(4, 4))
	assert.Equal(t, 0.0, passRate(0, 0))
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, summary{}, summarize(nil))
	})

	t.Run("identical scores", func(t *testing.T) {
		s := summarize([]float64{77, 77, 77})
		assert.Equal(t, 3, s.Count)
		assert.Zero(t, s.Std)
		assert.Equal(t, 77.0, s.Max)
		assert.Equal(t, s.Max, s.Min)
		assert.Equal(t, s.Max, s.Mean)
		assert.Equal(t, s.Max, s.Median)
	})

	t.Run("single value has zero deviation", func(t *testing.T) {
		s := summarize([]float64{42})
		assert.Zero(t, s.Std)
		assert.Equal(t, 42.0, s.Median)
	})

	t.Run("sample deviation", func(t *testing.T) {
		xs := []float64{4, 1, 3, 2}
		s := summarize(xs)
		assert.Equal(t, 2.5, s.Mean)
		assert.Equal(t, 2.5, s.Median)
		assert.Equal(t, 1.29, s.Std)
		assert.Equal(t, []float64{4, 1, 3, 2}, xs, "input is not reordered")
	})
}
