package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/foiaclean/internal/app"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitNoInputs = 2
	exitProblems = 3
)

type flagValues struct {
	outDir      string
	inputGlob   string
	configPath  string
	envFiles    string
	workers     int
	encoding    string
	skipLines   string
	manifest    string
	report      string
	clearOut    bool
	strictPerms bool
	dryRun      bool
	strict      bool
	verbose     bool
	version     bool
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var fv flagValues
	fs := flag.NewFlagSet("foiaclean", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: foiaclean -o DIR -f GLOB [flags]\n\nStrip State Department classification headers and footers from OCR text.\n\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&fv.outDir, "o", "", "Output directory for cleaned text files")
	fs.StringVar(&fv.outDir, "out", "", "Output directory for cleaned text files (alias of -o)")
	fs.StringVar(&fv.inputGlob, "f", "", "Glob pattern selecting input text files")
	fs.StringVar(&fv.inputGlob, "files", "", "Glob pattern selecting input text files (alias of -f)")
	fs.StringVar(&fv.configPath, "config", "", "Path to YAML or JSON config file")
	fs.StringVar(&fv.envFiles, "env", ".env", "Comma-separated dotenv files to load before reading the environment")
	fs.IntVar(&fv.workers, "workers", app.DefaultWorkers, "Number of documents processed in parallel")
	fs.StringVar(&fv.encoding, "encoding", "utf-8", "Input text encoding, e.g. utf-8, windows-1252, iso-8859-1")
	fs.StringVar(&fv.skipLines, "skip", "", "'|'-separated line values to drop wherever they appear")
	fs.StringVar(&fv.manifest, "manifest", "", "Write a JSON run manifest to this path")
	fs.StringVar(&fv.report, "report", "", "Write quarantined files to this path (.json or YAML)")
	fs.BoolVar(&fv.clearOut, "out.clear", false, "Remove the output directory contents before the run")
	fs.BoolVar(&fv.strictPerms, "out.strictPerms", false, "Create output with 0700 directories and 0600 files")
	fs.BoolVar(&fv.dryRun, "dry-run", false, "Classify documents without writing output files")
	fs.BoolVar(&fv.strict, "strict", false, "Exit with status 3 when any file is quarantined")
	fs.BoolVar(&fv.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&fv.version, "version", false, "Print version information and exit")
	_ = fs.Parse(os.Args[1:])

	if fv.version {
		fmt.Printf("foiaclean %s (commit %s, built %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	cfg, err := resolveConfig(fs, fv)
	if err != nil {
		log.Error().Err(err).Msg("configuration")
		os.Exit(exitFailure)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, cfg))
}

// resolveConfig layers defaults, config file, environment and explicitly
// set flags, in increasing precedence.
func resolveConfig(fs *flag.FlagSet, fv flagValues) (app.Config, error) {
	if err := app.LoadEnvFiles(app.SplitList(fv.envFiles, ",")...); err != nil {
		return app.Config{}, err
	}

	cfg := app.DefaultConfig()
	if strings.TrimSpace(fv.configPath) != "" {
		fc, err := app.LoadConfigFile(fv.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", fv.configPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o", "out":
			cfg.OutputDir = fv.outDir
		case "f", "files":
			cfg.InputGlob = fv.inputGlob
		case "workers":
			cfg.Workers = fv.workers
		case "encoding":
			cfg.Encoding = fv.encoding
		case "skip":
			cfg.SkipLines = app.SplitList(fv.skipLines, "|")
		case "manifest":
			cfg.ManifestPath = fv.manifest
		case "report":
			cfg.ReportPath = fv.report
		case "out.clear":
			cfg.ClearOutput = fv.clearOut
		case "out.strictPerms":
			cfg.StrictPerms = fv.strictPerms
		case "dry-run":
			cfg.DryRun = fv.dryRun
		case "strict":
			cfg.Strict = fv.strict
		case "v":
			cfg.Verbose = fv.verbose
		}
	})
	return cfg, app.ValidateConfig(cfg)
}

func run(ctx context.Context, cfg app.Config) int {
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("init failed")
		return exitFailure
	}
	defer a.Close()

	sum, err := a.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		if errors.Is(err, app.ErrNoInputs) {
			return exitNoInputs
		}
		return exitFailure
	}
	app.PrintProblems(os.Stdout, sum.Problems)
	if cfg.Strict && len(sum.Problems) > 0 {
		return exitProblems
	}
	return exitOK
}
