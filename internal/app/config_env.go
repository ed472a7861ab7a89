package app

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvOutDir      = "FOIACLEAN_OUT_DIR"
	EnvFiles       = "FOIACLEAN_FILES"
	EnvEncoding    = "FOIACLEAN_ENCODING"
	EnvWorkers     = "FOIACLEAN_WORKERS"
	EnvSkipLines   = "FOIACLEAN_SKIP_LINES"
	EnvManifest    = "FOIACLEAN_MANIFEST"
	EnvReport      = "FOIACLEAN_REPORT"
	EnvDryRun      = "FOIACLEAN_DRY_RUN"
	EnvStrict      = "FOIACLEAN_STRICT"
	EnvVerbose     = "FOIACLEAN_VERBOSE"
	EnvClearOutput = "FOIACLEAN_OUT_CLEAR"
	EnvStrictPerms = "FOIACLEAN_OUT_STRICT_PERMS"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. Env beats the config file; flags are applied afterwards and beat env.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := strings.TrimSpace(os.Getenv(EnvOutDir)); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFiles)); v != "" {
		cfg.InputGlob = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEncoding)); v != "" {
		cfg.Encoding = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	// Skip lines may contain commas, so the list is '|' separated.
	if v := os.Getenv(EnvSkipLines); v != "" {
		cfg.SkipLines = SplitList(v, "|")
	}
	if v := strings.TrimSpace(os.Getenv(EnvManifest)); v != "" {
		cfg.ManifestPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvReport)); v != "" {
		cfg.ReportPath = v
	}

	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.DryRun, EnvDryRun)
	setBool(&cfg.Strict, EnvStrict)
	setBool(&cfg.Verbose, EnvVerbose)
	setBool(&cfg.ClearOutput, EnvClearOutput)
	setBool(&cfg.StrictPerms, EnvStrictPerms)
}

// SplitList splits s on sep, trims each part and drops empty parts.
func SplitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
