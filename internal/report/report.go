// Package report formats the assessment results for terminal output and
// assembles the numeric series a plotting front-end would consume.
// Rendering itself is out of scope; everything here is text or plain data.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/chrissnell/hydroassess/internal/timeseries"
	"github.com/chrissnell/hydroassess/pkg/fdc"
	"github.com/chrissnell/hydroassess/pkg/hydropower"
	"github.com/chrissnell/hydroassess/pkg/rating"
)

// PlotData carries the point sets behind each of the standard assessment
// charts: the rating curve with its measurements, the recovered daily flow
// hydrograph, the measured-vs-modeled flow-duration curves, and the annual
// mean flow series.
type PlotData struct {
	// Rating curve: fitted line plus the discrete measurements it was
	// fit from.
	CurveStages        []float64
	CurveDischarges    []float64
	MeasuredStages     []float64
	MeasuredDischarges []float64

	// Hydrograph is the daily project flow recovered from stage.
	Hydrograph []timeseries.Point

	// FDC comparison in percent-exceeded convention.
	MeasuredFDC []fdc.Point
	ModeledFDC  []fdc.Point

	// AnnualMeans is the per-year mean of the synthesized long-term flow.
	AnnualMeans []timeseries.YearMean
}

// FlowSummary holds the headline long-term versus measured-period flow
// statistics.
type FlowSummary struct {
	LongTermMAD    float64
	LongTermMedian float64
	MeasuredMean   float64
	MeasuredMedian float64
}

// WriteFlowSummary prints the long-term flow characterization.
func WriteFlowSummary(w io.Writer, s FlowSummary) {
	fmt.Fprintf(w, "The mean annual flow (MAD) at the project location is %.1f m^3/s\n", s.LongTermMAD)
	fmt.Fprintf(w, "To compare, the average flow over the measured period was %.1f m^3/s\n", s.MeasuredMean)
	fmt.Fprintf(w, "The median flow for the long-term period was %.1f m^3/s\n", s.LongTermMedian)
	fmt.Fprintf(w, "To compare, the median flow over the measured period was %.1f m^3/s\n", s.MeasuredMedian)
}

// WriteRatingDiagnostics prints the fitted rating-curve parameters.
func WriteRatingDiagnostics(w io.Writer, c *rating.Curve) {
	fmt.Fprintf(w, "Rating curve: Q = %.3f*(h-%.2f)^%.3f  (log-log fit: n=%d, R^2=%.3f, slope stderr=%.4f)\n",
		c.Coefficient(), c.H0, c.Exponent(), c.N, c.RSquared, c.StdErr)
}

// ScenarioLine formats one assessment in the fixed single-line layout used
// for the scenario comparison table.
func ScenarioLine(a hydropower.Assessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%6s=%.1fcms, %%exc.=%.2f, (%.1f MW), ", a.Label, a.DesignFlow, a.Exceedance, a.CapacityMW)
	fmt.Fprintf(&b, "%.1f GWh (%.1f GWh from FDC), ", a.EnergySeriesGWh, a.EnergyFDCGWh)
	fmt.Fprintf(&b, "ann_rev=$%.2fM (fdc: $%.2fM), %d-yr rev=$%.1fM, cost=$%.1fM",
		a.AnnualRevenue, a.FDCAnnualRevenue, a.HorizonYears, a.TotalRevenue, a.Cost)
	if a.PaybackDefined {
		fmt.Fprintf(&b, ", payback=%.1fy, ROI=%.2f", a.PaybackYears, a.ROI)
	} else {
		b.WriteString(", payback=undefined (no revenue)")
	}
	return b.String()
}

// WriteScenarios prints one line per assessment.
func WriteScenarios(w io.Writer, assessments []hydropower.Assessment) {
	for _, a := range assessments {
		fmt.Fprintln(w, ScenarioLine(a))
	}
}
