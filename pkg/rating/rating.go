// Package rating fits stage-discharge rating curves of the power-law form
// Q = C·(h−h0)^b. The fit is done by ordinary least squares in log-log
// space, where the relation is linear:
//
//	log(h−h0) = slope·log(Q) + intercept
//
// with slope = 1/b and intercept = −log(C)/b. The point-of-zero-flow offset
// h0 cannot be fitted this way and must be supplied.
package rating

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when fewer than two usable (stage,
// discharge) measurement pairs remain after dropping invalid samples.
var ErrInsufficientData = errors.New("rating: need at least two valid stage-discharge measurements")

// Curve holds the fitted log-log regression parameters and diagnostics.
// A Curve is immutable once fit.
type Curve struct {
	// Slope and Intercept describe the best-fit line in log-log space:
	// log(h−h0) = Slope·log(Q) + Intercept.
	Slope     float64
	Intercept float64

	// H0 is the point-of-zero-flow datum offset the curve was fit with.
	H0 float64

	// RSquared is the coefficient of determination of the log-log fit.
	RSquared float64

	// StdErr is the standard error of the fitted slope.
	StdErr float64

	// N is the number of measurement pairs used in the fit.
	N int
}

// Fit computes the log-log OLS rating curve from paired measurements.
// Pairs where the discharge is non-positive, the stage does not exceed h0,
// or either value is NaN are dropped before fitting.
func Fit(stages, discharges []float64, h0 float64) (*Curve, error) {
	if len(stages) != len(discharges) {
		return nil, errors.New("rating: stage and discharge slices differ in length")
	}

	var logQ, logH []float64
	for i := range stages {
		h, q := stages[i], discharges[i]
		if math.IsNaN(h) || math.IsNaN(q) || q <= 0 || h-h0 <= 0 {
			continue
		}
		logQ = append(logQ, math.Log(q))
		logH = append(logH, math.Log(h-h0))
	}
	if len(logQ) < 2 {
		return nil, ErrInsufficientData
	}

	intercept, slope := stat.LinearRegression(logQ, logH, nil, false)
	r2 := stat.RSquared(logQ, logH, nil, intercept, slope)

	return &Curve{
		Slope:     slope,
		Intercept: intercept,
		H0:        h0,
		RSquared:  r2,
		StdErr:    slopeStdErr(logQ, logH, intercept, slope),
		N:         len(logQ),
	}, nil
}

// Discharge recovers the discharge for a stage reading h:
//
//	Q = exp((log(h−h0) − intercept) / slope)
//
// A zero fitted slope short-circuits to 0 (the degenerate flat curve cannot
// be inverted). A stage at or below the datum offset returns NaN: the log is
// undefined there and the reading carries no flow information.
func (c *Curve) Discharge(h float64) float64 {
	if c.Slope == 0 {
		return 0
	}
	if math.IsNaN(h) || h-c.H0 <= 0 {
		return math.NaN()
	}
	return math.Exp((math.Log(h-c.H0) - c.Intercept) / c.Slope)
}

// Coefficient returns C of the underlying power law Q = C·(h−h0)^b, or NaN
// for a degenerate zero-slope fit.
func (c *Curve) Coefficient() float64 {
	if c.Slope == 0 {
		return math.NaN()
	}
	return math.Exp(-c.Intercept / c.Slope)
}

// Exponent returns b of the underlying power law, or NaN for a degenerate
// zero-slope fit.
func (c *Curve) Exponent() float64 {
	if c.Slope == 0 {
		return math.NaN()
	}
	return 1 / c.Slope
}

// CurvePoints evaluates the fitted curve at n evenly spaced stages across
// [hMin, hMax], for plotting against the measured points. Stages at or below
// h0 yield NaN discharges, which plotting front-ends skip.
func (c *Curve) CurvePoints(hMin, hMax float64, n int) (stages, discharges []float64) {
	if n < 2 {
		n = 2
	}
	stages = make([]float64, n)
	discharges = make([]float64, n)
	step := (hMax - hMin) / float64(n-1)
	for i := range stages {
		h := hMin + float64(i)*step
		stages[i] = h
		discharges[i] = c.Discharge(h)
	}
	return stages, discharges
}

// slopeStdErr is the standard error of the OLS slope estimate:
// sqrt(SSR/(n−2) / Σ(x−x̄)²). Returns 0 when n ≤ 2.
func slopeStdErr(xs, ys []float64, intercept, slope float64) float64 {
	n := len(xs)
	if n <= 2 {
		return 0
	}
	xMean := stat.Mean(xs, nil)
	var ssr, ssx float64
	for i := range xs {
		resid := ys[i] - (intercept + slope*xs[i])
		ssr += resid * resid
		dx := xs[i] - xMean
		ssx += dx * dx
	}
	if ssx == 0 {
		return 0
	}
	return math.Sqrt(ssr / float64(n-2) / ssx)
}
