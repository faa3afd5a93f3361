package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	inputs, err := s.GetInputs()
	if err != nil {
		return nil, fmt.Errorf("failed to load inputs: %w", err)
	}
	config.Inputs = *inputs

	site, err := s.GetSite()
	if err != nil {
		return nil, fmt.Errorf("failed to load site parameters: %w", err)
	}
	config.Site = *site

	economics, err := s.GetEconomics()
	if err != nil {
		return nil, fmt.Errorf("failed to load economics: %w", err)
	}
	config.Economics = *economics

	analysis, err := s.GetAnalysis()
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis settings: %w", err)
	}
	config.Analysis = *analysis

	return config, nil
}

// GetInputs returns the input file paths from the database
func (s *SQLiteProvider) GetInputs() (*InputsData, error) {
	query := `
		SELECT stage_file, measurements_file, regional_file
		FROM inputs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var inputs InputsData
	err := s.db.QueryRow(query).Scan(&inputs.StageFile, &inputs.MeasurementsFile, &inputs.RegionalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to query inputs: %w", err)
	}
	return &inputs, nil
}

// GetSite returns the site parameters from the database
func (s *SQLiteProvider) GetSite() (*SiteData, error) {
	query := `
		SELECT datum_offset, instream_flow_requirement, head, efficiency
		FROM site
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var site SiteData
	err := s.db.QueryRow(query).Scan(&site.DatumOffset, &site.IFR, &site.Head, &site.Efficiency)
	if err != nil {
		return nil, fmt.Errorf("failed to query site parameters: %w", err)
	}
	return &site, nil
}

// GetEconomics returns the economics parameters from the database
func (s *SQLiteProvider) GetEconomics() (*EconomicsData, error) {
	query := `
		SELECT unit_capacity_cost, energy_price, horizon_years
		FROM economics
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var econ EconomicsData
	err := s.db.QueryRow(query).Scan(&econ.UnitCapacityCost, &econ.EnergyPrice, &econ.HorizonYears)
	if err != nil {
		return nil, fmt.Errorf("failed to query economics: %w", err)
	}
	return &econ, nil
}

// GetAnalysis returns the analysis overrides from the database
func (s *SQLiteProvider) GetAnalysis() (*AnalysisData, error) {
	analysis := &AnalysisData{}

	var pairing sql.NullString
	err := s.db.QueryRow(`
		SELECT pairing
		FROM analysis
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`).Scan(&pairing)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query analysis settings: %w", err)
	}
	if pairing.Valid {
		analysis.Pairing = pairing.String
	}

	years, err := s.db.Query(`
		SELECT year
		FROM excluded_years
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY year
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query excluded years: %w", err)
	}
	defer years.Close()

	for years.Next() {
		var y int
		if err := years.Scan(&y); err != nil {
			return nil, fmt.Errorf("failed to scan excluded year: %w", err)
		}
		analysis.ExcludeYears = append(analysis.ExcludeYears, y)
	}
	if err := years.Err(); err != nil {
		return nil, fmt.Errorf("failed to read excluded years: %w", err)
	}

	scenarios, err := s.db.Query(`
		SELECT label, design_flow
		FROM scenarios
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY design_flow
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer scenarios.Close()

	for scenarios.Next() {
		var sc ScenarioData
		if err := scenarios.Scan(&sc.Label, &sc.DesignFlow); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		analysis.Scenarios = append(analysis.Scenarios, sc)
	}
	if err := scenarios.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}

	return analysis, nil
}

// IsReadOnly returns false; SQLite configuration can be managed in place
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
