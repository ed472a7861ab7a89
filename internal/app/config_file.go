package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/foiaclean/internal/extract"
)

// FileConfig is the on-disk configuration schema (YAML or JSON).
type FileConfig struct {
	Input    string `yaml:"input" json:"input"`
	Output   string `yaml:"output" json:"output"`
	Encoding string `yaml:"encoding" json:"encoding"`
	Workers  int    `yaml:"workers" json:"workers"`

	// SkipLines are normalized line values dropped wherever they appear.
	SkipLines []string `yaml:"skipLines" json:"skipLines"`

	Manifest string `yaml:"manifest" json:"manifest"`
	Report   string `yaml:"report" json:"report"`

	Out struct {
		Clear       bool `yaml:"clear" json:"clear"`
		StrictPerms bool `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"out" json:"out"`

	DryRun  bool `yaml:"dryRun" json:"dryRun"`
	Strict  bool `yaml:"strict" json:"strict"`
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig. Unknown extensions are
// tried as YAML, then JSON.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. It runs
// before environment overrides and flags, which take precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if s := strings.TrimSpace(fc.Input); s != "" {
		cfg.InputGlob = s
	}
	if s := strings.TrimSpace(fc.Output); s != "" {
		cfg.OutputDir = s
	}
	if s := strings.TrimSpace(fc.Encoding); s != "" {
		cfg.Encoding = s
	}
	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if len(fc.SkipLines) > 0 {
		cfg.SkipLines = append([]string{}, fc.SkipLines...)
	}
	if s := strings.TrimSpace(fc.Manifest); s != "" {
		cfg.ManifestPath = s
	}
	if s := strings.TrimSpace(fc.Report); s != "" {
		cfg.ReportPath = s
	}
	if fc.Out.Clear {
		cfg.ClearOutput = true
	}
	if fc.Out.StrictPerms {
		cfg.StrictPerms = true
	}
	if fc.DryRun {
		cfg.DryRun = true
	}
	if fc.Strict {
		cfg.Strict = true
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig rejects configurations a run cannot start with.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputGlob) == "" {
		return errors.New("config: input file pattern is required (-f)")
	}
	if _, err := filepath.Match(cfg.InputGlob, ""); err != nil {
		return fmt.Errorf("config: bad input pattern %q: %w", cfg.InputGlob, err)
	}
	if !cfg.DryRun && strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: output directory is required (-o)")
	}
	if cfg.Workers < 0 {
		return errors.New("config: negative worker count is not allowed")
	}
	if _, err := extract.LookupEncoding(cfg.Encoding); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
