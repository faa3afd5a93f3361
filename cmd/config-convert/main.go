// config-convert migrates a YAML assessment configuration into the SQLite
// schema the -config-backend=sqlite option reads.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/chrissnell/hydroassess/pkg/config"
	_ "modernc.org/sqlite"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file to create")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	provider := config.NewYAMLProvider(*yamlFile)
	cfg, err := provider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stat(*sqliteFile); err == nil {
		fmt.Fprintf(os.Stderr, "Refusing to overwrite existing file: %s\n", *sqliteFile)
		os.Exit(1)
	}

	if err := writeDatabase(*sqliteFile, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing SQLite config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Converted %s -> %s\n", *yamlFile, *sqliteFile)
}

func writeDatabase(path string, cfg *config.ConfigData) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	schema := []string{
		`CREATE TABLE configs (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`,
		`CREATE TABLE inputs (config_id INTEGER REFERENCES configs(id), stage_file TEXT, measurements_file TEXT, regional_file TEXT)`,
		`CREATE TABLE site (config_id INTEGER REFERENCES configs(id), datum_offset REAL, instream_flow_requirement REAL, head REAL, efficiency REAL)`,
		`CREATE TABLE economics (config_id INTEGER REFERENCES configs(id), unit_capacity_cost REAL, energy_price REAL, horizon_years INTEGER)`,
		`CREATE TABLE analysis (config_id INTEGER REFERENCES configs(id), pairing TEXT)`,
		`CREATE TABLE excluded_years (config_id INTEGER REFERENCES configs(id), year INTEGER)`,
		`CREATE TABLE scenarios (config_id INTEGER REFERENCES configs(id), label TEXT, design_flow REAL)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO configs (id, name) VALUES (1, 'default')`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO inputs VALUES (1, ?, ?, ?)`,
		cfg.Inputs.StageFile, cfg.Inputs.MeasurementsFile, cfg.Inputs.RegionalFile); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO site VALUES (1, ?, ?, ?, ?)`,
		cfg.Site.DatumOffset, cfg.Site.IFR, cfg.Site.Head, cfg.Site.Efficiency); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO economics VALUES (1, ?, ?, ?)`,
		cfg.Economics.UnitCapacityCost, cfg.Economics.EnergyPrice, cfg.Economics.HorizonYears); err != nil {
		return err
	}
	if cfg.Analysis.Pairing != "" {
		if _, err := tx.Exec(`INSERT INTO analysis VALUES (1, ?)`, cfg.Analysis.Pairing); err != nil {
			return err
		}
	}
	for _, y := range cfg.Analysis.ExcludeYears {
		if _, err := tx.Exec(`INSERT INTO excluded_years VALUES (1, ?)`, y); err != nil {
			return err
		}
	}
	for _, s := range cfg.Analysis.Scenarios {
		if _, err := tx.Exec(`INSERT INTO scenarios VALUES (1, ?, ?)`, s.Label, s.DesignFlow); err != nil {
			return err
		}
	}

	return tx.Commit()
}
