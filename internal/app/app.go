package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"github.com/hyperifyio/foiaclean/internal/extract"
	"github.com/hyperifyio/foiaclean/internal/outdir"
)

var (
	// ErrNoInputs is returned when the input pattern matches no files.
	ErrNoInputs = errors.New("no input files matched")

	// ErrClearInputs is returned when clearing the output directory would
	// remove matched input files.
	ErrClearInputs = errors.New("output dir to clear contains input files")
)

// App runs one batch of documents through the recognizer.
type App struct {
	cfg      Config
	enc      encoding.Encoding
	out      *outdir.Dir
	started  time.Time
	finished time.Time
}

// Summary is the outcome of a run.
type Summary struct {
	Files    []FileResult // one per input, in sorted input order
	Written  int
	Problems []Problem // sorted by source path
}

// New validates cfg and prepares an App. The output directory is not
// touched until Run.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	enc, err := extract.LookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	a := &App{
		cfg: cfg,
		enc: enc,
		out: &outdir.Dir{Path: cfg.OutputDir, StrictPerms: cfg.StrictPerms},
	}
	return a, nil
}

// Close releases resources held by the App.
func (a *App) Close() {
	// nothing yet
}

// Run cleans every file matching the input pattern. Per-file failures are
// collected into the summary; only setup problems and cancellation return
// an error.
func (a *App) Run(ctx context.Context) (Summary, error) {
	a.started = time.Now().UTC()
	var sum Summary

	t0 := time.Now()
	inputs, err := filepath.Glob(a.cfg.InputGlob)
	if err != nil {
		return sum, fmt.Errorf("glob %q: %w", a.cfg.InputGlob, err)
	}
	sort.Strings(inputs)
	log.Info().Str("stage", "enumerate").Int("files", len(inputs)).Int64("elapsed", time.Since(t0).Milliseconds()).Msg("inputs enumerated")
	if len(inputs) == 0 {
		return sum, fmt.Errorf("%w: %s", ErrNoInputs, a.cfg.InputGlob)
	}

	if !a.cfg.DryRun {
		if a.cfg.ClearOutput {
			for _, src := range inputs {
				if a.out.Contains(src) {
					return sum, fmt.Errorf("%w: %s is under %s", ErrClearInputs, src, a.cfg.OutputDir)
				}
			}
			if err := a.out.Clear(); err != nil {
				return sum, fmt.Errorf("clear output dir: %w", err)
			}
		} else if err := a.out.Ensure(); err != nil {
			return sum, fmt.Errorf("prepare output dir: %w", err)
		}
	}

	t0 = time.Now()
	names, collisions := planOutputs(inputs)
	results := make([]FileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, src := range inputs {
		if first, dup := collisions[i]; dup {
			results[i] = collisionResult(src, names[i], first)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.processFile(src, names[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	log.Info().Str("stage", "clean").Int("files", len(inputs)).Int64("elapsed", time.Since(t0).Milliseconds()).Msg("documents processed")

	sum = summarize(results)
	a.finished = time.Now().UTC()

	t0 = time.Now()
	if err := a.writeArtifacts(sum); err != nil {
		return sum, err
	}
	log.Info().Str("stage", "report").Int("written", sum.Written).Int("problems", len(sum.Problems)).Int64("elapsed", time.Since(t0).Milliseconds()).Msg("run complete")

	log.Info().Int("count", len(sum.Problems)).Msg("files with header issues")
	for _, p := range sum.Problems {
		log.Warn().Str("file", p.Source).Str("reason", p.Reason).Msg("problem file")
	}
	return sum, nil
}

// planOutputs assigns output names in input order. A later input whose
// name is already taken maps to the index of the first owner.
func planOutputs(inputs []string) ([]string, map[int]int) {
	names := make([]string, len(inputs))
	owner := make(map[string]int, len(inputs))
	collisions := make(map[int]int)
	for i, src := range inputs {
		names[i] = outputName(src)
		if first, ok := owner[names[i]]; ok {
			collisions[i] = first
			continue
		}
		owner[names[i]] = i
	}
	return names, collisions
}

func summarize(results []FileResult) Summary {
	sum := Summary{Files: results}
	for _, r := range results {
		if r.Written {
			sum.Written++
		}
		if r.Problem != nil {
			sum.Problems = append(sum.Problems, *r.Problem)
		}
	}
	sort.SliceStable(sum.Problems, func(i, j int) bool {
		return sum.Problems[i].Source < sum.Problems[j].Source
	})
	return sum
}

func (a *App) writeArtifacts(sum Summary) error {
	if !a.cfg.DryRun && sum.Written > 0 {
		sums := make([]outdir.Sum, 0, sum.Written)
		for _, r := range sum.Files {
			if r.Written {
				sums = append(sums, outdir.Sum{Name: filepath.Base(r.Output), SHA256: r.SHA256})
			}
		}
		if err := a.out.WriteSums(sums); err != nil {
			return fmt.Errorf("write checksums: %w", err)
		}
	}
	if a.cfg.ManifestPath != "" {
		if err := writeManifest(a.cfg.ManifestPath, a.manifestMeta(sum), sum.Files); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	if a.cfg.ReportPath != "" {
		if err := writeReport(a.cfg.ReportPath, sum.Problems); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}
