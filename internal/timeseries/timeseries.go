// Package timeseries provides an immutable daily time series type used by the
// rating-curve, correlation and hydropower calculations. A missing value is
// represented as NaN; transformations return new series and never mutate
// their receiver.
package timeseries

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Point is a single dated observation. A NaN value marks a day where the
// record exists but no usable measurement is available.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered daily series with strictly increasing, unique dates.
type Series struct {
	points []Point
}

// New builds a Series from arbitrary points. Dates are truncated to midnight
// UTC, sorted ascending, and de-duplicated (the last point for a given day
// wins, matching file order on re-exported hydrometric data).
func New(points []Point) Series {
	norm := make([]Point, len(points))
	for i, p := range points {
		norm[i] = Point{Date: Day(p.Date), Value: p.Value}
	}
	sort.SliceStable(norm, func(i, j int) bool { return norm[i].Date.Before(norm[j].Date) })

	out := norm[:0]
	for _, p := range norm {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return Series{points: out}
}

// Day truncates a timestamp to midnight UTC, the canonical key for joining
// daily records from different sources.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Len returns the number of points, missing values included.
func (s Series) Len() int {
	return len(s.points)
}

// Points returns a copy of the underlying points.
func (s Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// At returns the value recorded for the given day and whether a non-missing
// value exists for it.
func (s Series) At(date time.Time) (float64, bool) {
	d := Day(date)
	i := sort.Search(len(s.points), func(i int) bool { return !s.points[i].Date.Before(d) })
	if i < len(s.points) && s.points[i].Date.Equal(d) && !math.IsNaN(s.points[i].Value) {
		return s.points[i].Value, true
	}
	return math.NaN(), false
}

// Start returns the first date in the series. Zero time when empty.
func (s Series) Start() time.Time {
	if len(s.points) == 0 {
		return time.Time{}
	}
	return s.points[0].Date
}

// End returns the last date in the series. Zero time when empty.
func (s Series) End() time.Time {
	if len(s.points) == 0 {
		return time.Time{}
	}
	return s.points[len(s.points)-1].Date
}

// Values returns all non-missing values in date order.
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s.points))
	for _, p := range s.points {
		if !math.IsNaN(p.Value) {
			out = append(out, p.Value)
		}
	}
	return out
}

// DropMissing returns a new series with all NaN points removed.
func (s Series) DropMissing() Series {
	out := make([]Point, 0, len(s.points))
	for _, p := range s.points {
		if !math.IsNaN(p.Value) {
			out = append(out, p)
		}
	}
	return Series{points: out}
}

// Map applies fn to every non-missing value and returns the derived series.
// Missing values stay missing; fn may itself return NaN to mark a point
// unavailable (e.g. stage below the rating curve's point of zero flow).
func (s Series) Map(fn func(float64) float64) Series {
	out := make([]Point, len(s.points))
	for i, p := range s.points {
		v := p.Value
		if !math.IsNaN(v) {
			v = fn(v)
		}
		out[i] = Point{Date: p.Date, Value: v}
	}
	return Series{points: out}
}

// InnerJoin pairs s with other on date, keeping only days where both series
// have a non-missing value. The returned slices are index-aligned.
func (s Series) InnerJoin(other Series) (xs, ys []float64) {
	i, j := 0, 0
	for i < len(s.points) && j < len(other.points) {
		a, b := s.points[i], other.points[j]
		switch {
		case a.Date.Before(b.Date):
			i++
		case b.Date.Before(a.Date):
			j++
		default:
			if !math.IsNaN(a.Value) && !math.IsNaN(b.Value) {
				xs = append(xs, a.Value)
				ys = append(ys, b.Value)
			}
			i++
			j++
		}
	}
	return xs, ys
}

// Slice returns the sub-series covering [start, end] inclusive.
func (s Series) Slice(start, end time.Time) Series {
	start, end = Day(start), Day(end)
	out := make([]Point, 0)
	for _, p := range s.points {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return Series{points: out}
}

// ExcludeYears drops every point falling in one of the given calendar years.
// Used to remove incomplete years before annual aggregation.
func (s Series) ExcludeYears(years ...int) Series {
	if len(years) == 0 {
		return s
	}
	drop := make(map[int]bool, len(years))
	for _, y := range years {
		drop[y] = true
	}
	out := make([]Point, 0, len(s.points))
	for _, p := range s.points {
		if !drop[p.Date.Year()] {
			out = append(out, p)
		}
	}
	return Series{points: out}
}

// YearCount returns the number of distinct calendar years with at least one
// non-missing value.
func (s Series) YearCount() int {
	seen := make(map[int]bool)
	for _, p := range s.points {
		if !math.IsNaN(p.Value) {
			seen[p.Date.Year()] = true
		}
	}
	return len(seen)
}

// YearMean is the mean of all non-missing values within one calendar year.
type YearMean struct {
	Year int
	Mean float64
}

// AnnualMeans groups the series by calendar year and returns per-year means
// in ascending year order. Years with no non-missing values are omitted.
func (s Series) AnnualMeans() []YearMean {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, p := range s.points {
		if math.IsNaN(p.Value) {
			continue
		}
		y := p.Date.Year()
		sums[y] += p.Value
		counts[y]++
	}

	out := make([]YearMean, 0, len(sums))
	for y, sum := range sums {
		out = append(out, YearMean{Year: y, Mean: sum / float64(counts[y])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Mean returns the arithmetic mean of all non-missing values, or NaN for an
// empty series.
func (s Series) Mean() float64 {
	vals := s.Values()
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}
