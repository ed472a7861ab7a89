package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// manifestMeta captures run details that make a batch reproducible.
type manifestMeta struct {
	Version     string    `json:"version"`
	InputGlob   string    `json:"input_glob"`
	OutputDir   string    `json:"output_dir"`
	Encoding    string    `json:"encoding"`
	SkipLines   []string  `json:"skip_lines"`
	Workers     int       `json:"workers"`
	DryRun      bool      `json:"dry_run"`
	Files       int       `json:"files"`
	Written     int       `json:"written"`
	Problems    int       `json:"problems"`
	StartedAt   time.Time `json:"started_at"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (a *App) manifestMeta(sum Summary) manifestMeta {
	skip := a.cfg.SkipLines
	if skip == nil {
		skip = []string{}
	}
	return manifestMeta{
		Version:     BuildVersion,
		InputGlob:   a.cfg.InputGlob,
		OutputDir:   a.cfg.OutputDir,
		Encoding:    a.cfg.Encoding,
		SkipLines:   skip,
		Workers:     a.cfg.Workers,
		DryRun:      a.cfg.DryRun,
		Files:       len(sum.Files),
		Written:     sum.Written,
		Problems:    len(sum.Problems),
		StartedAt:   a.started,
		GeneratedAt: a.finished,
	}
}

// marshalManifestJSON encodes the run manifest.
func marshalManifestJSON(meta manifestMeta, files []FileResult) ([]byte, error) {
	if files == nil {
		files = []FileResult{}
	}
	payload := struct {
		Meta  manifestMeta `json:"meta"`
		Files []FileResult `json:"files"`
	}{Meta: meta, Files: files}
	return json.MarshalIndent(payload, "", "  ")
}

func writeManifest(path string, meta manifestMeta, files []FileResult) error {
	data, err := marshalManifestJSON(meta, files)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
