// Package fdc builds flow-duration curves and the quantile statistics that
// back them. The quantile convention follows the hydrometric standard: a
// flow-duration curve plots discharge magnitude against the percent of time
// that magnitude is equaled or exceeded.
package fdc

import (
	"math"
	"sort"
)

// Point is one (percentile, discharge) pair on a curve. Percentile is the
// percent of time the discharge is NOT exceeded, i.e. the value returned by
// the quantile function at that percentile.
type Point struct {
	Percentile float64
	Flow       float64
}

// Curve is a flow-duration curve sampled at evenly spaced percentiles over
// [0, 100], ascending. Flows are non-decreasing with percentile because they
// come from a quantile function.
type Curve struct {
	Points []Point
}

// New samples a flow-duration curve from the given discharge values at n
// evenly spaced percentiles spanning [0, 100]. Returns nil for an empty
// input or n < 2.
func New(values []float64, n int) *Curve {
	if len(values) == 0 || n < 2 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	points := make([]Point, n)
	step := 100.0 / float64(n-1)
	for i := range points {
		p := float64(i) * step
		points[i] = Point{Percentile: p, Flow: quantileSorted(sorted, p)}
	}
	return &Curve{Points: points}
}

// Flows returns the discharge values of the curve in percentile order.
func (c *Curve) Flows() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Flow
	}
	return out
}

// ExceedancePoints returns the curve re-keyed by percent of time exceeded
// (100 − percentile), the axis convention used when plotting an FDC.
func (c *Curve) ExceedancePoints() []Point {
	out := make([]Point, len(c.Points))
	for i, p := range c.Points {
		out[i] = Point{Percentile: 100 - p.Percentile, Flow: p.Flow}
	}
	return out
}

// Quantile returns the p-th percentile (0–100) of values using linear
// interpolation between closest ranks, the same convention hydrometric
// tooling uses for duration-curve quantiles. Returns NaN for empty input;
// p is clamped to [0, 100].
//
// gonum's stat.Quantile cumulant kinds do not include this interpolation
// mode, so it is computed directly.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return quantileSorted(sorted, p)
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	h := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// PercentileOfScore returns the percentile rank (0–100) of q within values,
// using mean-rank semantics: ties count half. Returns NaN for empty input.
func PercentileOfScore(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	below, equal := 0, 0
	for _, v := range values {
		switch {
		case v < q:
			below++
		case v == q:
			equal++
		}
	}
	left := float64(below)
	right := float64(below + equal)
	return (left + right) / 2 / float64(len(values)) * 100
}

// ExceedanceFraction returns the fraction of time (0–1) that flows in values
// equal or exceed q.
func ExceedanceFraction(values []float64, q float64) float64 {
	pos := PercentileOfScore(values, q)
	if math.IsNaN(pos) {
		return math.NaN()
	}
	return (100 - pos) / 100
}
