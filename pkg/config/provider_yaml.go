package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Inputs struct {
			StageFile        string `yaml:"stage_file"`
			MeasurementsFile string `yaml:"measurements_file"`
			RegionalFile     string `yaml:"regional_file"`
		} `yaml:"inputs"`
		Site struct {
			DatumOffset float64 `yaml:"datum_offset"`
			IFR         float64 `yaml:"instream_flow_requirement"`
			Head        float64 `yaml:"head"`
			Efficiency  float64 `yaml:"efficiency"`
		} `yaml:"site"`
		Economics struct {
			UnitCapacityCost float64 `yaml:"unit_capacity_cost"`
			EnergyPrice      float64 `yaml:"energy_price"`
			HorizonYears     int     `yaml:"horizon_years"`
		} `yaml:"economics"`
		Analysis struct {
			Pairing      string `yaml:"pairing,omitempty"`
			ExcludeYears []int  `yaml:"exclude_years,omitempty"`
			Scenarios    []struct {
				Label      string  `yaml:"label"`
				DesignFlow float64 `yaml:"design_flow"`
			} `yaml:"scenarios,omitempty"`
		} `yaml:"analysis,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Inputs: InputsData{
			StageFile:        yamlConfig.Inputs.StageFile,
			MeasurementsFile: yamlConfig.Inputs.MeasurementsFile,
			RegionalFile:     yamlConfig.Inputs.RegionalFile,
		},
		Site: SiteData{
			DatumOffset: yamlConfig.Site.DatumOffset,
			IFR:         yamlConfig.Site.IFR,
			Head:        yamlConfig.Site.Head,
			Efficiency:  yamlConfig.Site.Efficiency,
		},
		Economics: EconomicsData{
			UnitCapacityCost: yamlConfig.Economics.UnitCapacityCost,
			EnergyPrice:      yamlConfig.Economics.EnergyPrice,
			HorizonYears:     yamlConfig.Economics.HorizonYears,
		},
		Analysis: AnalysisData{
			Pairing:      yamlConfig.Analysis.Pairing,
			ExcludeYears: yamlConfig.Analysis.ExcludeYears,
		},
	}

	for _, s := range yamlConfig.Analysis.Scenarios {
		config.Analysis.Scenarios = append(config.Analysis.Scenarios, ScenarioData{
			Label:      s.Label,
			DesignFlow: s.DesignFlow,
		})
	}

	y.config = config
	return config, nil
}

// GetInputs returns the input file configuration
func (y *YAMLProvider) GetInputs() (*InputsData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Inputs, nil
}

// GetSite returns the site parameter configuration
func (y *YAMLProvider) GetSite() (*SiteData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Site, nil
}

// GetEconomics returns the economics configuration
func (y *YAMLProvider) GetEconomics() (*EconomicsData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Economics, nil
}

// GetAnalysis returns the analysis overrides
func (y *YAMLProvider) GetAnalysis() (*AnalysisData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return &y.config.Analysis, nil
}

func (y *YAMLProvider) ensureLoaded() error {
	if y.config != nil {
		return nil
	}
	_, err := y.LoadConfig()
	return err
}

// IsReadOnly returns true; YAML configuration is never written back
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML files
func (y *YAMLProvider) Close() error {
	return nil
}
