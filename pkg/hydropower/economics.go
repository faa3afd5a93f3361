package hydropower

import (
	"fmt"

	"github.com/chrissnell/hydroassess/internal/timeseries"
	"github.com/chrissnell/hydroassess/pkg/fdc"
)

// Economics holds the fixed unit costs and prices shared by all scenarios.
type Economics struct {
	// UnitCapacityCost is the capital cost per unit of design flow,
	// in $M per m³/s.
	UnitCapacityCost float64
	// EnergyPrice is the revenue per unit energy, in $M per GWh.
	EnergyPrice float64
	// HorizonYears is the revenue horizon for the total-revenue figure.
	HorizonYears int
}

// Scenario is one candidate design flow with a human-readable label.
type Scenario struct {
	Label      string
	DesignFlow float64
}

// DefaultScenarios returns the conventional candidate set: the long-term
// median flow, the mean annual discharge (MAD), and 1.2× and 1.5× MAD.
func DefaultScenarios(median, mad float64) []Scenario {
	return []Scenario{
		{Label: "Median", DesignFlow: median},
		{Label: "MAD", DesignFlow: mad},
		{Label: "1.2MAD", DesignFlow: 1.2 * mad},
		{Label: "1.5MAD", DesignFlow: 1.5 * mad},
	}
}

// Assessment is the computed energy/economics record for one scenario.
// Monetary figures are in $M; energies in GWh.
type Assessment struct {
	Scenario

	// Exceedance is the fraction of time (0–1) the design flow is equaled
	// or exceeded in the long-term series.
	Exceedance float64

	// CapacityMW is the design generation capacity.
	CapacityMW float64

	// EnergySeriesGWh is annual energy by the time-series method.
	EnergySeriesGWh float64

	// EnergyFDCGWh is annual energy by the area-under-FDC method, with
	// FDCMeanFlow the effective turbined flow (m³/s) behind it.
	EnergyFDCGWh float64
	FDCMeanFlow  float64

	// AnnualRevenue is from the time-series energy; FDCAnnualRevenue from
	// the FDC energy. TotalRevenue is AnnualRevenue over HorizonYears.
	AnnualRevenue    float64
	FDCAnnualRevenue float64
	TotalRevenue     float64
	HorizonYears     int

	// Cost is the capital cost.
	Cost float64

	// PaybackYears and ROI are defined only when PaybackDefined is true;
	// a zero annual revenue leaves them unset rather than infinite.
	PaybackYears   float64
	ROI            float64
	PaybackDefined bool
}

// Assess computes one Assessment per scenario against the long-term flow
// series. A scenario whose energy estimate fails does not prevent the
// others from completing; its error is collected and returned alongside the
// successful assessments.
func Assess(flows timeseries.Series, plant Plant, econ Economics, scenarios []Scenario) ([]Assessment, []error) {
	values := flows.Values()

	var out []Assessment
	var errs []error
	for _, sc := range scenarios {
		a := Assessment{Scenario: sc}

		a.Exceedance = fdc.ExceedanceFraction(values, sc.DesignFlow)
		a.CapacityMW = plant.Power(sc.DesignFlow) / 1000
		a.Cost = econ.UnitCapacityCost * sc.DesignFlow

		seriesEnergy, err := plant.AnnualEnergySeries(flows, sc.DesignFlow)
		if err != nil {
			errs = append(errs, fmt.Errorf("scenario %s: %w", sc.Label, err))
			continue
		}
		a.EnergySeriesGWh = seriesEnergy

		meanFlow, fdcEnergy, err := plant.AnnualEnergyFDC(values, sc.DesignFlow)
		if err != nil {
			errs = append(errs, fmt.Errorf("scenario %s: %w", sc.Label, err))
			continue
		}
		a.FDCMeanFlow = meanFlow
		a.EnergyFDCGWh = fdcEnergy

		a.AnnualRevenue = seriesEnergy * econ.EnergyPrice
		a.FDCAnnualRevenue = fdcEnergy * econ.EnergyPrice
		a.TotalRevenue = a.AnnualRevenue * float64(econ.HorizonYears)
		a.HorizonYears = econ.HorizonYears

		if a.AnnualRevenue > 0 {
			a.PaybackDefined = true
			a.PaybackYears = a.Cost / a.AnnualRevenue
			a.ROI = 1 / a.PaybackYears
		}

		out = append(out, a)
	}
	return out, errs
}
