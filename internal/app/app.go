// Package app wires the assessment pipeline together: ingest the three
// hydrometric datasets, fit the rating curve, recover the project flow
// series, correlate it against the regional record, synthesize the long-term
// series, and run the hydropower scenario assessment.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chrissnell/hydroassess/internal/ingest"
	"github.com/chrissnell/hydroassess/internal/report"
	"github.com/chrissnell/hydroassess/internal/timeseries"
	"github.com/chrissnell/hydroassess/pkg/config"
	"github.com/chrissnell/hydroassess/pkg/correlation"
	"github.com/chrissnell/hydroassess/pkg/fdc"
	"github.com/chrissnell/hydroassess/pkg/hydropower"
	"github.com/chrissnell/hydroassess/pkg/rating"
	"go.uber.org/zap"
)

// fdcPoints is the FDC sample density used for the comparison plot series.
const fdcPoints = 200

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	out            io.Writer
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
		out:            os.Stdout,
	}
}

// SetOutput redirects the report output, primarily for tests.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// Result bundles everything the run computed, for callers that want the
// numbers rather than the printed report.
type Result struct {
	RatingCurve    *rating.Curve
	CorrelationFit *correlation.Fit
	LongTermFlow   timeseries.Series
	FlowSummary    report.FlowSummary
	Assessments    []hydropower.Assessment
	Plots          report.PlotData
}

// Run executes the full assessment once and prints the report.
func (a *App) Run(ctx context.Context) error {
	_, err := a.RunAssessment(ctx)
	return err
}

// RunAssessment executes the full assessment pipeline and returns the
// computed result. A failed scenario is reported and skipped; it does not
// abort the remaining scenarios.
func (a *App) RunAssessment(ctx context.Context) (*Result, error) {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	stage, measurements, regional, err := a.loadInputs(&cfg.Inputs)
	if err != nil {
		return nil, err
	}

	// Stage 1: rating curve and recovered project flow.
	stages := make([]float64, len(measurements))
	discharges := make([]float64, len(measurements))
	for i, m := range measurements {
		stages[i] = m.Stage
		discharges[i] = m.Discharge
	}
	curve, err := rating.Fit(stages, discharges, cfg.Site.DatumOffset)
	if err != nil {
		return nil, fmt.Errorf("fitting rating curve: %w", err)
	}
	a.logger.Infow("rating curve fit",
		"n", curve.N, "r2", curve.RSquared, "coefficient", curve.Coefficient(), "exponent", curve.Exponent())

	projectFlow := stage.Map(curve.Discharge)

	// Stage 1 continued: regional correlation and long-term synthesis.
	fit, err := a.fitCorrelation(cfg.Analysis.Pairing, regional, projectFlow)
	if err != nil {
		return nil, fmt.Errorf("fitting regional correlation: %w", err)
	}
	a.logger.Infow("regional correlation fit",
		"method", fit.Method, "n", fit.N, "slope", fit.Slope, "intercept", fit.Intercept, "r2", fit.RSquared)

	longTerm := fit.Synthesize(regional).DropMissing()
	if years := cfg.Analysis.ExcludeYears; len(years) > 0 {
		a.logger.Infof("excluding incomplete years %v from long-term series", years)
		longTerm = longTerm.ExcludeYears(years...)
	}

	summary := report.FlowSummary{
		LongTermMAD:    longTerm.Mean(),
		LongTermMedian: fdc.Quantile(longTerm.Values(), 50),
		MeasuredMean:   projectFlow.Mean(),
		MeasuredMedian: fdc.Quantile(projectFlow.Values(), 50),
	}

	// Stage 2: hydropower energy and economics.
	plant := hydropower.Plant{
		Head:       cfg.Site.Head,
		Efficiency: cfg.Site.Efficiency,
		IFR:        cfg.Site.IFR,
	}
	econ := hydropower.Economics{
		UnitCapacityCost: cfg.Economics.UnitCapacityCost,
		EnergyPrice:      cfg.Economics.EnergyPrice,
		HorizonYears:     cfg.Economics.HorizonYears,
	}

	scenarios := scenarioSet(cfg.Analysis.Scenarios, summary.LongTermMedian, summary.LongTermMAD)
	assessments, scErrs := hydropower.Assess(longTerm, plant, econ, scenarios)
	for _, scErr := range scErrs {
		a.logger.Warnf("scenario skipped: %v", scErr)
	}

	result := &Result{
		RatingCurve:    curve,
		CorrelationFit: fit,
		LongTermFlow:   longTerm,
		FlowSummary:    summary,
		Assessments:    assessments,
		Plots:          buildPlots(curve, measurements, projectFlow, longTerm),
	}

	report.WriteRatingDiagnostics(a.out, curve)
	report.WriteFlowSummary(a.out, summary)
	report.WriteScenarios(a.out, assessments)

	return result, nil
}

func (a *App) loadInputs(inputs *config.InputsData) (stage timeseries.Series, measurements []ingest.Measurement, regional timeseries.Series, err error) {
	stage, skipped, err := ingest.LoadStageSeries(inputs.StageFile)
	if err != nil {
		return stage, nil, regional, fmt.Errorf("loading stage series: %w", err)
	}
	a.warnSkipped("stage series", skipped)

	measurements, skipped, err = ingest.LoadMeasurements(inputs.MeasurementsFile)
	if err != nil {
		return stage, nil, regional, fmt.Errorf("loading discharge measurements: %w", err)
	}
	a.warnSkipped("discharge measurements", skipped)

	regional, skipped, err = ingest.LoadRegionalSeries(inputs.RegionalFile)
	if err != nil {
		return stage, measurements, regional, fmt.Errorf("loading regional record: %w", err)
	}
	a.warnSkipped("regional record", skipped)

	a.logger.Infow("inputs loaded",
		"stage_days", stage.Len(), "measurements", len(measurements), "regional_days", regional.Len())
	a.logger.Debugf("regional record covers %s to %s",
		regional.Start().Format("2006-01-02"), regional.End().Format("2006-01-02"))
	return stage, measurements, regional, nil
}

func (a *App) warnSkipped(name string, skipped int) {
	if skipped > 0 {
		a.logger.Warnf("%s: skipped %d malformed rows", name, skipped)
	}
}

func (a *App) fitCorrelation(pairing string, regional, projectFlow timeseries.Series) (*correlation.Fit, error) {
	switch pairing {
	case "", string(correlation.Chronological):
		return correlation.FitChronological(regional, projectFlow)
	case string(correlation.Frequency):
		return correlation.FitFrequency(regional, projectFlow)
	default:
		return nil, fmt.Errorf("unknown pairing method %q (use %q or %q)",
			pairing, correlation.Chronological, correlation.Frequency)
	}
}

func scenarioSet(overrides []config.ScenarioData, median, mad float64) []hydropower.Scenario {
	if len(overrides) == 0 {
		return hydropower.DefaultScenarios(median, mad)
	}
	out := make([]hydropower.Scenario, len(overrides))
	for i, s := range overrides {
		out[i] = hydropower.Scenario{Label: s.Label, DesignFlow: s.DesignFlow}
	}
	return out
}

func buildPlots(curve *rating.Curve, measurements []ingest.Measurement, projectFlow, longTerm timeseries.Series) report.PlotData {
	plots := report.PlotData{
		Hydrograph:  projectFlow.Points(),
		AnnualMeans: longTerm.AnnualMeans(),
	}

	hMin, hMax := curve.H0, curve.H0
	for _, m := range measurements {
		plots.MeasuredStages = append(plots.MeasuredStages, m.Stage)
		plots.MeasuredDischarges = append(plots.MeasuredDischarges, m.Discharge)
		if m.Stage > hMax {
			hMax = m.Stage
		}
	}
	plots.CurveStages, plots.CurveDischarges = curve.CurvePoints(hMin+0.001, hMax*1.1, 100)

	// FDC comparison over the days both the measured and modeled series
	// cover, in percent-exceeded convention.
	measured, modeled := projectFlow.InnerJoin(longTerm)
	if mc := fdc.New(measured, fdcPoints); mc != nil {
		plots.MeasuredFDC = mc.ExceedancePoints()
	}
	if mc := fdc.New(modeled, fdcPoints); mc != nil {
		plots.ModeledFDC = mc.ExceedancePoints()
	}
	return plots
}

func validate(cfg *config.ConfigData) error {
	switch {
	case cfg.Inputs.StageFile == "" || cfg.Inputs.MeasurementsFile == "" || cfg.Inputs.RegionalFile == "":
		return fmt.Errorf("configuration must name all three input files")
	case cfg.Site.Head <= 0:
		return fmt.Errorf("site head must be positive, got %v", cfg.Site.Head)
	case cfg.Site.Efficiency <= 0 || cfg.Site.Efficiency > 1:
		return fmt.Errorf("site efficiency must be in (0, 1], got %v", cfg.Site.Efficiency)
	case cfg.Site.IFR < 0:
		return fmt.Errorf("instream flow requirement cannot be negative, got %v", cfg.Site.IFR)
	case cfg.Economics.HorizonYears <= 0:
		return fmt.Errorf("economics horizon must be positive, got %d years", cfg.Economics.HorizonYears)
	}
	return nil
}
