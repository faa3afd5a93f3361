// Package correlation fits a linear relation between a short project flow
// record and a long regional record, then applies it across the full
// regional record to synthesize an estimated long-term project series.
//
// Two pairing methods are supported. Chronological pairing regresses flows
// that occurred on the same calendar day. Empirical frequency pairing
// regresses ranked flows within the concurrent period instead, removing the
// constraint that events at the two stations coincide day-to-day.
package correlation

import (
	"errors"
	"math"
	"sort"

	"github.com/chrissnell/hydroassess/internal/timeseries"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientOverlap is returned when fewer than two concurrent paired
// samples exist; a fit from fewer points would be spurious and is refused
// rather than silently produced.
var ErrInsufficientOverlap = errors.New("correlation: need at least two concurrent paired samples")

// Method identifies how concurrent flows were paired for the regression.
type Method string

const (
	// Chronological pairs flows recorded on the same calendar day.
	Chronological Method = "chronological"
	// Frequency pairs flows of equal rank within the concurrent period.
	Frequency Method = "frequency"
)

// Fit holds the fitted linear model project = Slope·regional + Intercept
// and its diagnostics. A Fit is immutable once computed.
type Fit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	N         int
	Method    Method
}

// FitChronological fits project flow against regional flow by chronological
// pairing: an inner join on date of the two series, missing values dropped.
func FitChronological(regional, project timeseries.Series) (*Fit, error) {
	xs, ys := regional.InnerJoin(project)
	return fit(xs, ys, Chronological)
}

// FitFrequency fits project flow against regional flow by empirical
// frequency pairing: the concurrent daily pairs are found as for
// chronological pairing, then each side is ranked independently and values
// of equal rank are regressed against each other.
func FitFrequency(regional, project timeseries.Series) (*Fit, error) {
	xs, ys := regional.InnerJoin(project)
	sort.Float64s(xs)
	sort.Float64s(ys)
	return fit(xs, ys, Frequency)
}

func fit(xs, ys []float64, method Method) (*Fit, error) {
	if len(xs) < 2 {
		return nil, ErrInsufficientOverlap
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return &Fit{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  stat.RSquared(xs, ys, nil, intercept, slope),
		N:         len(xs),
		Method:    method,
	}, nil
}

// Project estimates the project-location flow for a single regional flow.
func (f *Fit) Project(regional float64) float64 {
	if math.IsNaN(regional) {
		return math.NaN()
	}
	return f.Slope*regional + f.Intercept
}

// Synthesize applies the fitted model to every date the regional record
// covers, including dates with no project measurement, yielding the
// estimated long-term project series.
func (f *Fit) Synthesize(regional timeseries.Series) timeseries.Series {
	return regional.Map(func(q float64) float64 { return f.Slope*q + f.Intercept })
}
