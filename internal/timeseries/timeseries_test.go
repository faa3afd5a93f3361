package timeseries

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSortsAndDeduplicates(t *testing.T) {
	s := New([]Point{
		{Date: day(2020, 1, 3), Value: 3},
		{Date: day(2020, 1, 1), Value: 1},
		{Date: day(2020, 1, 2), Value: 2},
		{Date: day(2020, 1, 1), Value: 1.5}, // duplicate date, last wins
		{Date: time.Date(2020, 1, 4, 13, 45, 0, 0, time.UTC), Value: 4}, // intraday timestamp
	})

	if s.Len() != 4 {
		t.Fatalf("expected 4 points after dedup, got %d", s.Len())
	}

	points := s.Points()
	for i := 1; i < len(points); i++ {
		if !points[i-1].Date.Before(points[i].Date) {
			t.Errorf("dates not strictly increasing at index %d: %v then %v", i, points[i-1].Date, points[i].Date)
		}
	}

	if v, ok := s.At(day(2020, 1, 1)); !ok || v != 1.5 {
		t.Errorf("expected last duplicate to win with 1.5, got %v (ok=%v)", v, ok)
	}
	if v, ok := s.At(day(2020, 1, 4)); !ok || v != 4 {
		t.Errorf("expected intraday timestamp truncated to its day, got %v (ok=%v)", v, ok)
	}
}

func TestValuesAndDropMissing(t *testing.T) {
	s := New([]Point{
		{Date: day(2020, 1, 1), Value: 1},
		{Date: day(2020, 1, 2), Value: math.NaN()},
		{Date: day(2020, 1, 3), Value: 3},
	})

	vals := s.Values()
	if len(vals) != 2 || vals[0] != 1 || vals[1] != 3 {
		t.Errorf("Values() = %v, want [1 3]", vals)
	}

	if got := s.DropMissing().Len(); got != 2 {
		t.Errorf("DropMissing().Len() = %d, want 2", got)
	}
	if s.Len() != 3 {
		t.Errorf("DropMissing mutated the receiver: Len() = %d, want 3", s.Len())
	}
}

func TestMapKeepsMissingValues(t *testing.T) {
	s := New([]Point{
		{Date: day(2020, 1, 1), Value: 2},
		{Date: day(2020, 1, 2), Value: math.NaN()},
	})

	doubled := s.Map(func(v float64) float64 { return 2 * v })
	if v, _ := doubled.At(day(2020, 1, 1)); v != 4 {
		t.Errorf("mapped value = %v, want 4", v)
	}
	if _, ok := doubled.At(day(2020, 1, 2)); ok {
		t.Error("missing value should stay missing after Map")
	}
}

func TestInnerJoin(t *testing.T) {
	a := New([]Point{
		{Date: day(2020, 1, 1), Value: 1},
		{Date: day(2020, 1, 2), Value: 2},
		{Date: day(2020, 1, 3), Value: math.NaN()},
		{Date: day(2020, 1, 4), Value: 4},
	})
	b := New([]Point{
		{Date: day(2020, 1, 2), Value: 20},
		{Date: day(2020, 1, 3), Value: 30},
		{Date: day(2020, 1, 4), Value: 40},
		{Date: day(2020, 1, 5), Value: 50},
	})

	xs, ys := a.InnerJoin(b)
	if len(xs) != 2 || len(ys) != 2 {
		t.Fatalf("expected 2 concurrent pairs, got %d/%d", len(xs), len(ys))
	}
	if xs[0] != 2 || ys[0] != 20 || xs[1] != 4 || ys[1] != 40 {
		t.Errorf("joined pairs = %v/%v, want [2 4]/[20 40]", xs, ys)
	}
}

func TestAnnualAggregation(t *testing.T) {
	s := New([]Point{
		{Date: day(2019, 6, 1), Value: 2},
		{Date: day(2019, 6, 2), Value: 4},
		{Date: day(2020, 6, 1), Value: 10},
		{Date: day(2021, 6, 1), Value: math.NaN()},
	})

	if got := s.YearCount(); got != 2 {
		t.Errorf("YearCount() = %d, want 2 (NaN-only year excluded)", got)
	}

	means := s.AnnualMeans()
	want := []YearMean{{Year: 2019, Mean: 3}, {Year: 2020, Mean: 10}}
	if len(means) != len(want) {
		t.Fatalf("AnnualMeans() returned %d entries, want %d", len(means), len(want))
	}
	for i := range want {
		if means[i] != want[i] {
			t.Errorf("AnnualMeans()[%d] = %+v, want %+v", i, means[i], want[i])
		}
	}

	trimmed := s.ExcludeYears(2019)
	if trimmed.Len() != 2 {
		t.Errorf("ExcludeYears(2019).Len() = %d, want 2", trimmed.Len())
	}
	if got := trimmed.Mean(); got != 10 {
		t.Errorf("mean after exclusion = %v, want 10", got)
	}
}

func TestMeanEmptySeries(t *testing.T) {
	var s Series
	if got := s.Mean(); !math.IsNaN(got) {
		t.Errorf("Mean() of empty series = %v, want NaN", got)
	}
}

func TestSlice(t *testing.T) {
	s := New([]Point{
		{Date: day(2020, 1, 1), Value: 1},
		{Date: day(2020, 1, 2), Value: 2},
		{Date: day(2020, 1, 3), Value: 3},
		{Date: day(2020, 1, 4), Value: 4},
	})

	sub := s.Slice(day(2020, 1, 2), day(2020, 1, 3))
	if sub.Len() != 2 {
		t.Fatalf("Slice() returned %d points, want 2", sub.Len())
	}
	if !sub.Start().Equal(day(2020, 1, 2)) || !sub.End().Equal(day(2020, 1, 3)) {
		t.Errorf("Slice() range = %v..%v, want 2020-01-02..2020-01-03", sub.Start(), sub.End())
	}
}
