package app

import "github.com/hyperifyio/foiaclean/internal/extract"

// Defaults applied before the config file, environment and flags.
const (
	DefaultWorkers = 1
)

// Config holds runtime configuration for a cleaning run.
type Config struct {
	InputGlob string
	OutputDir string

	// Recognition
	SkipLines []string
	Encoding  string

	// Execution
	Workers int
	DryRun  bool
	Strict  bool
	Verbose bool

	// Output directory handling
	ClearOutput bool
	StrictPerms bool

	// Optional artifacts
	ManifestPath string
	ReportPath   string
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		Encoding: extract.DefaultEncoding,
		Workers:  DefaultWorkers,
	}
}
