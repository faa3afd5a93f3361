// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// Physical and unit-conversion constants used by the hydropower calculations.
const (
	// Gravity is the gravitational acceleration in m/s².
	Gravity = 9.81

	// HoursPerDay converts an average daily power (kW) to daily energy (kWh).
	HoursPerDay = 24

	// HoursPerYear converts an average annual power (kW) to annual energy (kWh).
	HoursPerYear = 8760

	// KWhPerGWh scales kWh figures to GWh for reporting.
	KWhPerGWh = 1e6
)
