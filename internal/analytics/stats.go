package analytics

import (
	"github.com/montanaflynn/stats"
)

// summary holds the descriptive statistics of a score column, already
// rounded to two decimals.
type summary struct {
	Count  int
	Mean   float64
	Max    float64
	Min    float64
	Median float64
	Std    float64
}

// summarize computes the statistics of xs. An empty column yields zeros.
// The standard deviation is the sample deviation and is 0 below two values.
func summarize(xs []float64) summary {
	s := summary{Count: len(xs)}
	if len(xs) == 0 {
		return s
	}

	mean, _ := stats.Mean(xs)
	maxv, _ := stats.Max(xs)
	minv, _ := stats.Min(xs)
	median, _ := stats.Median(xs)

	s.Mean = round2(mean)
	s.Max = round2(maxv)
	s.Min = round2(minv)
	s.Median = round2(median)

	if len(xs) > 1 {
		std, _ := stats.StandardDeviationSample(xs)
		s.Std = round2(std)
	}
	return s
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	r, err := stats.Round(x, 2)
	if err != nil {
		return 0
	}
	return r
}

// mean2 is the rounded mean of xs, or 0 when xs is empty.
func mean2(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, _ := stats.Mean(xs)
	return round2(m)
}

// passRate is passed/total as a rounded percentage; 0 when total is 0.
func passRate(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(passed) / float64(total) * 100)
}

// countAtLeast counts the values that reach line.
func countAtLeast(xs []float64, line float64) int {
	n := 0
	for _, x := range xs {
		if x >= line {
			n++
		}
	}
	return n
}

// group keeps values per key in first-seen key order.
type group struct {
	keys   []string
	values map[string][]float64
}

func newGroup() *group {
	return &group{values: make(map[string][]float64)}
}

func (g *group) add(key string, v float64) {
	if _, ok := g.values[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.values[key] = append(g.values[key], v)
}
