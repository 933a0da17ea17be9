// ABOUTME: Centralized configuration defaults for readlog
// ABOUTME: Contains display limits, backend names and file names used across commands

package config

// Backend names for the local store.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Display settings
const (
	DefaultListLimit = 20
	DisplayIDLength  = 8
	SeparatorWidth   = 60
	ChartWidth       = 40
)

// File names
const (
	configFileName = "config.yaml"
	appDirName     = "readlog"
)
