// Package config loads the site-assessment configuration from either a YAML
// file or a SQLite database through a common provider interface.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetInputs() (*InputsData, error)
	GetSite() (*SiteData, error)
	GetEconomics() (*EconomicsData, error)
	GetAnalysis() (*AnalysisData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Inputs    InputsData    `json:"inputs"`
	Site      SiteData      `json:"site"`
	Economics EconomicsData `json:"economics"`
	Analysis  AnalysisData  `json:"analysis,omitempty"`
}

// InputsData holds the paths of the three hydrometric input files
type InputsData struct {
	// StageFile is the datalogger stage series (Date, Value).
	StageFile string `json:"stage_file"`
	// MeasurementsFile is the discrete stage-discharge measurement table.
	MeasurementsFile string `json:"measurements_file"`
	// RegionalFile is the long-term regional daily record (WSC export).
	RegionalFile string `json:"regional_file"`
}

// SiteData holds the fixed physical parameters of the site and plant
type SiteData struct {
	// DatumOffset is the point-of-zero-flow stage offset h0 in metres.
	DatumOffset float64 `json:"datum_offset"`
	// IFR is the instream flow requirement in m³/s.
	IFR float64 `json:"instream_flow_requirement"`
	// Head is the gross head in metres.
	Head float64 `json:"head"`
	// Efficiency is the combined electrical/mechanical efficiency (0–1).
	Efficiency float64 `json:"efficiency"`
}

// EconomicsData holds unit costs and prices
type EconomicsData struct {
	// UnitCapacityCost is capital cost in $M per m³/s of design flow.
	UnitCapacityCost float64 `json:"unit_capacity_cost"`
	// EnergyPrice is revenue in $M per GWh.
	EnergyPrice float64 `json:"energy_price"`
	// HorizonYears is the total-revenue horizon (default 20).
	HorizonYears int `json:"horizon_years"`
}

// AnalysisData holds optional analysis overrides
type AnalysisData struct {
	// Pairing selects the correlation method: "chronological" (default)
	// or "frequency".
	Pairing string `json:"pairing,omitempty"`
	// ExcludeYears lists incomplete calendar years to drop from the
	// synthesized long-term series before aggregation.
	ExcludeYears []int `json:"exclude_years,omitempty"`
	// Scenarios overrides the default candidate design flows
	// (median, MAD, 1.2×MAD, 1.5×MAD) when non-empty.
	Scenarios []ScenarioData `json:"scenarios,omitempty"`
}

// ScenarioData is one explicit candidate design flow
type ScenarioData struct {
	Label      string  `json:"label"`
	DesignFlow float64 `json:"design_flow"`
}
