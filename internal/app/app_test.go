package app

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chrissnell/hydroassess/pkg/config"
	"go.uber.org/zap"
)

// writeTestInputs generates a consistent synthetic dataset: a rating curve
// Q = 2·h^1.5, a month of stage readings, and a three-year regional record
// that equals the recovered project flow on every concurrent day (so the
// correlation is exactly project = 1·regional + 0).
func writeTestInputs(t *testing.T, dir string) (stageFile, measurementsFile, regionalFile string) {
	t.Helper()

	ratingQ := func(h float64) float64 { return 2 * math.Pow(h, 1.5) }

	var b strings.Builder
	b.WriteString("Date,water level (m above 0 flow ref),Flow (m^3/s)\n")
	for i, h := range []float64{0.4, 0.6, 0.8, 1.0, 1.2} {
		fmt.Fprintf(&b, "2020-0%d-15,%.6f,%.9f\n", i+3, h, ratingQ(h))
	}
	measurementsFile = filepath.Join(dir, "measurements.csv")
	if err := os.WriteFile(measurementsFile, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	stageStart := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	projectFlow := make(map[string]float64)
	b.Reset()
	b.WriteString("Date,Value\n")
	for i := 0; i < 30; i++ {
		d := stageStart.AddDate(0, 0, i)
		h := 0.5 + 0.02*float64(i)
		projectFlow[d.Format("2006-01-02")] = ratingQ(h)
		fmt.Fprintf(&b, "%s,%.6f\n", d.Format("2006-01-02"), h)
	}
	stageFile = filepath.Join(dir, "stage.csv")
	if err := os.WriteFile(stageFile, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	b.Reset()
	b.WriteString("regional daily export\nID,PARAM,Date,Value\n")
	regionalStart := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := regionalStart; d.Year() <= 2020; d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		q, concurrent := projectFlow[key]
		if !concurrent {
			q = 1.0 + 0.1*float64(d.YearDay()%20)
		}
		fmt.Fprintf(&b, "08TEST1,1,%s,%.9f\n", key, q)
	}
	regionalFile = filepath.Join(dir, "regional.csv")
	if err := os.WriteFile(regionalFile, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	return stageFile, measurementsFile, regionalFile
}

func writeTestConfig(t *testing.T, dir, stageFile, measurementsFile, regionalFile, extra string) string {
	t.Helper()
	cfg := fmt.Sprintf(`
inputs:
  stage_file: %s
  measurements_file: %s
  regional_file: %s
site:
  datum_offset: 0.0
  instream_flow_requirement: 0.2
  head: 100.4
  efficiency: 0.76
economics:
  unit_capacity_cost: 1.0
  energy_price: 0.04
  horizon_years: 20
%s`, stageFile, measurementsFile, regionalFile, extra)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(t *testing.T, cfgPath string) (*App, *bytes.Buffer) {
	t.Helper()
	a := New(config.NewYAMLProvider(cfgPath), zap.NewNop().Sugar())
	var buf bytes.Buffer
	a.SetOutput(&buf)
	return a, &buf
}

func TestRunAssessmentEndToEnd(t *testing.T) {
	dir := t.TempDir()
	stageFile, measurementsFile, regionalFile := writeTestInputs(t, dir)
	cfgPath := writeTestConfig(t, dir, stageFile, measurementsFile, regionalFile, "")

	a, buf := newTestApp(t, cfgPath)
	result, err := a.RunAssessment(context.Background())
	if err != nil {
		t.Fatalf("RunAssessment: %v", err)
	}

	// The synthetic measurements follow Q = 2·h^1.5 exactly.
	if got := result.RatingCurve.Coefficient(); math.Abs(got-2.0) > 1e-6 {
		t.Errorf("rating coefficient = %v, want 2.0", got)
	}
	if got := result.RatingCurve.Exponent(); math.Abs(got-1.5) > 1e-6 {
		t.Errorf("rating exponent = %v, want 1.5", got)
	}

	// Regional equals project on every concurrent day.
	if got := result.CorrelationFit.Slope; math.Abs(got-1.0) > 1e-6 {
		t.Errorf("correlation slope = %v, want 1.0", got)
	}
	if got := result.CorrelationFit.Intercept; math.Abs(got) > 1e-6 {
		t.Errorf("correlation intercept = %v, want 0", got)
	}
	if result.CorrelationFit.N != 30 {
		t.Errorf("concurrent pairs = %d, want 30", result.CorrelationFit.N)
	}

	// Long-term series spans the whole regional record.
	if got := result.LongTermFlow.YearCount(); got != 3 {
		t.Errorf("long-term years = %d, want 3", got)
	}
	if result.FlowSummary.LongTermMAD <= 0 {
		t.Errorf("MAD = %v, want positive", result.FlowSummary.LongTermMAD)
	}

	// Default scenario set: median, MAD, 1.2×MAD, 1.5×MAD.
	if len(result.Assessments) != 4 {
		t.Fatalf("got %d assessments, want 4", len(result.Assessments))
	}
	for _, asmt := range result.Assessments {
		if asmt.EnergySeriesGWh <= 0 || asmt.EnergyFDCGWh <= 0 {
			t.Errorf("scenario %s: energies %v/%v, want positive", asmt.Label, asmt.EnergySeriesGWh, asmt.EnergyFDCGWh)
		}
		if !asmt.PaybackDefined {
			t.Errorf("scenario %s: payback undefined with positive revenue", asmt.Label)
		}
	}

	// Plot series assembled.
	if len(result.Plots.CurveStages) == 0 || len(result.Plots.Hydrograph) != 30 {
		t.Errorf("plot data incomplete: %d curve points, %d hydrograph days",
			len(result.Plots.CurveStages), len(result.Plots.Hydrograph))
	}
	if len(result.Plots.MeasuredFDC) == 0 || len(result.Plots.ModeledFDC) == 0 {
		t.Error("FDC comparison series missing")
	}
	if len(result.Plots.AnnualMeans) != 3 {
		t.Errorf("annual means = %d years, want 3", len(result.Plots.AnnualMeans))
	}

	out := buf.String()
	for _, want := range []string{"Rating curve:", "mean annual flow (MAD)", "Median=", "MAD="} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRunAssessmentExcludeYearsAndScenarios(t *testing.T) {
	dir := t.TempDir()
	stageFile, measurementsFile, regionalFile := writeTestInputs(t, dir)
	cfgPath := writeTestConfig(t, dir, stageFile, measurementsFile, regionalFile, `analysis:
  pairing: frequency
  exclude_years: [2018]
  scenarios:
    - label: Student
      design_flow: 2.8
`)

	a, _ := newTestApp(t, cfgPath)
	result, err := a.RunAssessment(context.Background())
	if err != nil {
		t.Fatalf("RunAssessment: %v", err)
	}

	if got := result.LongTermFlow.YearCount(); got != 2 {
		t.Errorf("long-term years after exclusion = %d, want 2", got)
	}
	if result.CorrelationFit.Method != "frequency" {
		t.Errorf("pairing method = %q, want frequency", result.CorrelationFit.Method)
	}
	if len(result.Assessments) != 1 || result.Assessments[0].Label != "Student" {
		t.Fatalf("assessments = %+v, want single Student scenario", result.Assessments)
	}
	if result.Assessments[0].DesignFlow != 2.8 {
		t.Errorf("design flow = %v, want 2.8", result.Assessments[0].DesignFlow)
	}
}

func TestRunAssessmentValidation(t *testing.T) {
	dir := t.TempDir()
	stageFile, measurementsFile, regionalFile := writeTestInputs(t, dir)

	tests := []struct {
		name  string
		extra string
	}{
		{"bad pairing method", "analysis:\n  pairing: telepathic\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := writeTestConfig(t, dir, stageFile, measurementsFile, regionalFile, tt.extra)
			a, _ := newTestApp(t, cfgPath)
			if _, err := a.RunAssessment(context.Background()); err == nil {
				t.Error("expected configuration error")
			}
		})
	}

	// Missing input files must fail before any fitting happens.
	cfgPath := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(cfgPath, []byte("site:\n  head: 10\n  efficiency: 0.8\neconomics:\n  horizon_years: 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, _ := newTestApp(t, cfgPath)
	if _, err := a.RunAssessment(context.Background()); err == nil {
		t.Error("expected error for missing input paths")
	}
}
