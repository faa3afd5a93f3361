// Package ingest reads the delimited-text hydrometric datasets the analysis
// consumes: a datalogger stage series, discrete stage-discharge measurements
// from site visits, and a long-term regional daily record in the Water
// Survey of Canada export shape.
//
// Malformed rows (unparseable dates, non-numeric values) are skipped and
// counted, never fatal; callers decide whether the skip count warrants a
// warning. Blank numeric fields load as NaN, the series' missing-value
// convention.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chrissnell/hydroassess/internal/timeseries"
)

// Measurement is one discrete site-visit observation used to fit the rating
// curve: a stage reading paired with a measured discharge.
type Measurement struct {
	Date      time.Time
	Stage     float64
	Discharge float64
}

// regional record PARAM codes, per the WSC daily export format
const (
	paramDischarge = 1
	paramLevel     = 2
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LoadStageSeries reads a (Date, Value) stage series from path.
// Returns the series and the number of skipped malformed rows.
func LoadStageSeries(path string) (timeseries.Series, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return timeseries.Series{}, 0, err
	}
	defer f.Close()
	return ReadStageSeries(f)
}

// ReadStageSeries is LoadStageSeries over an arbitrary reader.
func ReadStageSeries(r io.Reader) (timeseries.Series, int, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return timeseries.Series{}, 0, err
	}

	dateCol, err := findColumn(header, "date")
	if err != nil {
		return timeseries.Series{}, 0, err
	}
	valueCol, err := findColumn(header, "value", "level", "stage")
	if err != nil {
		return timeseries.Series{}, 0, err
	}

	var points []timeseries.Point
	skipped := 0
	for _, row := range rows {
		date, ok := parseDate(row[dateCol])
		if !ok {
			skipped++
			continue
		}
		points = append(points, timeseries.Point{Date: date, Value: parseValue(row[valueCol])})
	}
	return timeseries.New(points), skipped, nil
}

// LoadMeasurements reads the discrete stage-discharge measurement table from
// path. The stage column is located by a "level" or "stage" header, the
// discharge column by a "flow" or "discharge" header.
func LoadMeasurements(path string) ([]Measurement, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadMeasurements(f)
}

// ReadMeasurements is LoadMeasurements over an arbitrary reader.
func ReadMeasurements(r io.Reader) ([]Measurement, int, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, 0, err
	}

	dateCol, err := findColumn(header, "date")
	if err != nil {
		return nil, 0, err
	}
	stageCol, err := findColumn(header, "level", "stage")
	if err != nil {
		return nil, 0, err
	}
	// The stage header is resolved first and excluded from the discharge
	// lookup: the conventional stage label "water level (m above 0 flow
	// ref)" itself contains "flow".
	flowCol, err := findColumnExcluding(header, stageCol, "flow", "discharge")
	if err != nil {
		return nil, 0, err
	}

	var ms []Measurement
	skipped := 0
	for _, row := range rows {
		date, ok := parseDate(row[dateCol])
		if !ok {
			skipped++
			continue
		}
		stage := parseValue(row[stageCol])
		flow := parseValue(row[flowCol])
		if math.IsNaN(stage) || math.IsNaN(flow) {
			skipped++
			continue
		}
		ms = append(ms, Measurement{Date: date, Stage: stage, Discharge: flow})
	}
	return ms, skipped, nil
}

// LoadRegionalSeries reads a WSC-style daily export from path: a Date
// column, a PARAM column flagging the parameter (1 = discharge, 2 = water
// level), and a Value column. Only discharge rows are kept.
func LoadRegionalSeries(path string) (timeseries.Series, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return timeseries.Series{}, 0, err
	}
	defer f.Close()
	return ReadRegionalSeries(f)
}

// ReadRegionalSeries is LoadRegionalSeries over an arbitrary reader.
func ReadRegionalSeries(r io.Reader) (timeseries.Series, int, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return timeseries.Series{}, 0, err
	}

	dateCol, err := findColumn(header, "date")
	if err != nil {
		return timeseries.Series{}, 0, err
	}
	paramCol, err := findColumn(header, "param")
	if err != nil {
		return timeseries.Series{}, 0, err
	}
	valueCol, err := findColumn(header, "value", "flow")
	if err != nil {
		return timeseries.Series{}, 0, err
	}

	var points []timeseries.Point
	skipped := 0
	for _, row := range rows {
		param, err := strconv.Atoi(strings.TrimSpace(row[paramCol]))
		if err != nil {
			skipped++
			continue
		}
		if param != paramDischarge {
			continue
		}
		date, ok := parseDate(row[dateCol])
		if !ok {
			skipped++
			continue
		}
		points = append(points, timeseries.Point{Date: date, Value: parseValue(row[valueCol])})
	}
	return timeseries.New(points), skipped, nil
}

// readTable reads all CSV records and returns the data rows plus the header.
// WSC exports carry a free-text information line above the header, so the
// header is taken to be the first row containing a "date" column.
func readTable(r io.Reader) (rows [][]string, header []string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}

	for i, rec := range records {
		if _, err := findColumn(rec, "date"); err == nil {
			return records[i+1:], rec, nil
		}
	}
	return nil, nil, fmt.Errorf("no header row with a date column found")
}

// findColumn returns the index of the first header cell containing any of
// the given substrings, case-insensitively.
func findColumn(header []string, names ...string) (int, error) {
	return findColumnExcluding(header, -1, names...)
}

// findColumnExcluding is findColumn with one index masked out, for tables
// where a previously resolved header would also match the search terms.
func findColumnExcluding(header []string, exclude int, names ...string) (int, error) {
	for i, h := range header {
		if i == exclude {
			continue
		}
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if strings.Contains(h, name) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("no column matching %q in header", names)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseValue parses a numeric cell; blank or malformed cells become NaN,
// the series missing-value marker.
func parseValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
