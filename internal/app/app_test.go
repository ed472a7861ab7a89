package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/foiaclean/internal/outdir"
)

const (
	legacyDoc = "UNCLASSIFIED\n\nU.S. Department of State\nCase No. F-2014-99999\nDoc No. C99999\nDate: 03/04/2016\nReal content line\n"
	modernDoc = "UNCLASSIFIED U.S. Department of State Case No. F-2014-12345 Doc No. C12345678 Date: 01/02/2015\n  From: Someone RELEASE IN PART B6\nBody text here\n"
	badStart  = "CLASSIFIED\nHello world\n"
	badBlock  = "UNCLASSIFIED U.S. Department of State Case No. F-2014-12345 Doc No. C12345678 Date: 01/02/2015\nUNCLASSIFIED STATE DEPT. - PRODUCED TO HOUSE SELECT BENGHAZI COMM.\nWRONG LINE HERE\n"
)

func writeInputs(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func silenceLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = old })
	return &buf
}

func newApp(t *testing.T, cfg Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return string(b)
}

func TestRun_CleansAndQuarantines(t *testing.T) {
	logs := silenceLogs(t)
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	out := filepath.Join(tmp, "out")
	writeInputs(t, in, map[string]string{
		"legacy.txt": legacyDoc,
		"modern.txt": modernDoc,
		"start.txt":  badStart,
		"block.txt":  badBlock,
	})
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(in, "*.txt")
	cfg.OutputDir = out
	cfg.ManifestPath = filepath.Join(tmp, "manifest.json")
	cfg.ReportPath = filepath.Join(tmp, "problems.yaml")

	sum, err := newApp(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Written != 2 {
		t.Fatalf("written = %d, want 2", sum.Written)
	}

	if got := readFile(t, filepath.Join(out, "legacy.txt")); got != "Real content line" {
		t.Fatalf("legacy output = %q", got)
	}
	if got := readFile(t, filepath.Join(out, "modern.txt")); got != "From: Someone\nBody text here" {
		t.Fatalf("modern output = %q", got)
	}
	for _, name := range []string{"start.txt", "block.txt"} {
		if _, err := os.Stat(filepath.Join(out, name)); !os.IsNotExist(err) {
			t.Fatalf("quarantined %s must not be written (err=%v)", name, err)
		}
	}

	if len(sum.Problems) != 2 {
		t.Fatalf("problems = %+v", sum.Problems)
	}
	if !strings.HasSuffix(sum.Problems[0].Source, "block.txt") || sum.Problems[0].Reason != ReasonMalformedHeader {
		t.Fatalf("first problem = %+v", sum.Problems[0])
	}
	if sum.Problems[0].Index == nil || *sum.Problems[0].Index != 2 || sum.Problems[0].Line != "WRONG LINE HERE" {
		t.Fatalf("header location = %+v", sum.Problems[0])
	}
	if !strings.HasSuffix(sum.Problems[1].Source, "start.txt") || sum.Problems[1].Reason != ReasonMalformedStart {
		t.Fatalf("second problem = %+v", sum.Problems[1])
	}

	sums := readFile(t, filepath.Join(out, outdir.SumsFileName))
	if !strings.Contains(sums, outdir.SHA256Hex([]byte("Real content line"))+"  legacy.txt") {
		t.Fatalf("checksums missing legacy.txt:\n%s", sums)
	}

	var manifest struct {
		Meta  manifestMeta `json:"meta"`
		Files []FileResult `json:"files"`
	}
	if err := json.Unmarshal([]byte(readFile(t, cfg.ManifestPath)), &manifest); err != nil {
		t.Fatalf("manifest json: %v", err)
	}
	if manifest.Meta.Files != 4 || manifest.Meta.Written != 2 || manifest.Meta.Problems != 2 {
		t.Fatalf("manifest meta = %+v", manifest.Meta)
	}
	if len(manifest.Files) != 4 || !strings.HasSuffix(manifest.Files[0].Source, "block.txt") {
		t.Fatalf("manifest files not in sorted input order: %+v", manifest.Files)
	}

	var rep problemReport
	if err := yaml.Unmarshal([]byte(readFile(t, cfg.ReportPath)), &rep); err != nil {
		t.Fatalf("report yaml: %v", err)
	}
	if rep.Count != 2 || len(rep.Files) != 2 {
		t.Fatalf("report = %+v", rep)
	}

	if !strings.Contains(logs.String(), `"stage":"clean"`) {
		t.Fatalf("expected stage logs, got:\n%s", logs.String())
	}
}

func TestRun_AccountsForEveryLine(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	writeInputs(t, tmp, map[string]string{"legacy.txt": legacyDoc, "modern.txt": modernDoc})
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(tmp, "*.txt")
	cfg.DryRun = true

	sum, err := newApp(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, f := range sum.Files {
		if f.Kept+f.Consumed != f.InputLines {
			t.Fatalf("%s: kept %d + consumed %d != %d", f.Source, f.Kept, f.Consumed, f.InputLines)
		}
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	out := filepath.Join(tmp, "out")
	writeInputs(t, in, map[string]string{"legacy.txt": legacyDoc})
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(in, "*.txt")
	cfg.OutputDir = out
	cfg.DryRun = true

	sum, err := newApp(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Written != 0 || len(sum.Files) != 1 || sum.Files[0].Kept != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("dry run created output dir (err=%v)", err)
	}
}

func TestRun_ClearRefusesWhenInputsInsideOutputDir(t *testing.T) {
	cases := []struct {
		name   string
		inputs string // relative to the temp dir
		out    string
	}{
		{name: "same dir", inputs: ".", out: "."},
		{name: "inputs below output", inputs: "in", out: "."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			silenceLogs(t)
			tmp := t.TempDir()
			in := filepath.Join(tmp, tc.inputs)
			writeInputs(t, in, map[string]string{"legacy.raw": legacyDoc, "modern.raw": modernDoc})
			cfg := DefaultConfig()
			cfg.InputGlob = filepath.Join(in, "*.raw")
			cfg.OutputDir = filepath.Join(tmp, tc.out)
			cfg.ClearOutput = true

			sum, err := newApp(t, cfg).Run(context.Background())
			if !errors.Is(err, ErrClearInputs) {
				t.Fatalf("err = %v, want ErrClearInputs", err)
			}
			if sum.Written != 0 || len(sum.Files) != 0 {
				t.Fatalf("summary = %+v", sum)
			}
			for _, name := range []string{"legacy.raw", "modern.raw"} {
				if got := readFile(t, filepath.Join(in, name)); got == "" {
					t.Fatalf("input %s emptied", name)
				}
			}
		})
	}
}

func TestRun_ClearWithInputsOutsideOutputDir(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	out := filepath.Join(tmp, "out")
	writeInputs(t, in, map[string]string{"legacy.txt": legacyDoc})
	writeInputs(t, out, map[string]string{"stale.txt": "old"})
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(in, "*.txt")
	cfg.OutputDir = out
	cfg.ClearOutput = true

	if _, err := newApp(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "stale.txt")); !os.IsNotExist(err) {
		t.Fatalf("stale output survived clear (err=%v)", err)
	}
	if got := readFile(t, filepath.Join(out, "legacy.txt")); got != "Real content line" {
		t.Fatalf("output = %q", got)
	}
}

func TestRun_NoInputs(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(tmp, "*.txt")
	cfg.OutputDir = filepath.Join(tmp, "out")

	_, err := newApp(t, cfg).Run(context.Background())
	if !errors.Is(err, ErrNoInputs) {
		t.Fatalf("err = %v, want ErrNoInputs", err)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	files := map[string]string{}
	for i, body := range []string{legacyDoc, modernDoc, badStart, badBlock, legacyDoc, badStart, modernDoc, badBlock} {
		files[string(rune('a'+i))+".txt"] = body
	}
	writeInputs(t, in, files)

	runWith := func(workers int) Summary {
		cfg := DefaultConfig()
		cfg.InputGlob = filepath.Join(in, "*.txt")
		cfg.OutputDir = filepath.Join(tmp, "out", string(rune('0'+workers)))
		cfg.Workers = workers
		sum, err := newApp(t, cfg).Run(context.Background())
		if err != nil {
			t.Fatalf("run workers=%d: %v", workers, err)
		}
		return sum
	}
	seq := runWith(1)
	par := runWith(4)
	if !reflect.DeepEqual(seq.Problems, par.Problems) {
		t.Fatalf("problem lists differ:\n%+v\n%+v", seq.Problems, par.Problems)
	}
	if seq.Written != par.Written || seq.Written != 4 {
		t.Fatalf("written seq=%d par=%d", seq.Written, par.Written)
	}
}

func TestRun_OutputNameCollision(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	out := filepath.Join(tmp, "out")
	writeInputs(t, in, map[string]string{
		"a/doc.txt":  legacyDoc,
		"b/doc.text": modernDoc,
	})
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(in, "*", "doc.*")
	cfg.OutputDir = out

	sum, err := newApp(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Written != 1 || len(sum.Problems) != 1 || sum.Problems[0].Reason != ReasonNameCollision {
		t.Fatalf("summary = %+v", sum)
	}
	if got := readFile(t, filepath.Join(out, "doc.txt")); got != "Real content line" {
		t.Fatalf("first input must own the output name, got %q", got)
	}
}

func TestRun_Latin1AndHTMLInputs(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	out := filepath.Join(tmp, "out")
	latin1 := append([]byte("UNCLASSIFIED U.S. Department of State Case No. F-2014-12345 Doc No. C12345678 Date: 01/02/2015\nCaf"), 0xe9, '\n')
	writeInputs(t, in, map[string]string{
		"latin.txt": string(latin1),
		"page.html": "<html><head><title>C1</title></head><body><pre>\n" + strings.ReplaceAll(legacyDoc, "Real content line", "Caf&eacute; menu") + "</pre></body></html>",
	})
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(in, "*")
	cfg.OutputDir = out
	cfg.Encoding = "iso-8859-1"

	sum, err := newApp(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sum.Problems) != 0 {
		t.Fatalf("problems = %+v", sum.Problems)
	}
	if got := readFile(t, filepath.Join(out, "latin.txt")); got != "Café" {
		t.Fatalf("latin output = %q", got)
	}
	if got := readFile(t, filepath.Join(out, "page.txt")); got != "Café menu" {
		t.Fatalf("html output = %q", got)
	}
	if sum.Files[1].Title != "C1" || sum.Files[0].Title != "" {
		t.Fatalf("titles = %q, %q", sum.Files[0].Title, sum.Files[1].Title)
	}
}

func TestRun_SkipLinesFromConfig(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	out := filepath.Join(tmp, "out")
	writeInputs(t, in, map[string]string{"doc.txt": modernDoc + "-- scanned --\nlast\n"})
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(in, "*.txt")
	cfg.OutputDir = out
	cfg.SkipLines = []string{"-- scanned --"}

	if _, err := newApp(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := readFile(t, filepath.Join(out, "doc.txt")); got != "From: Someone\nBody text here\nlast" {
		t.Fatalf("output = %q", got)
	}
}

func TestRun_Canceled(t *testing.T) {
	silenceLogs(t)
	tmp := t.TempDir()
	writeInputs(t, tmp, map[string]string{"doc.txt": legacyDoc})
	cfg := DefaultConfig()
	cfg.InputGlob = filepath.Join(tmp, "*.txt")
	cfg.OutputDir = filepath.Join(tmp, "out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newApp(t, cfg).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := New(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("New err = %v, want context.Canceled", err)
	}
}

func TestPrintProblems(t *testing.T) {
	var b bytes.Buffer
	PrintProblems(&b, []Problem{{Source: "a.txt"}, {Source: "b.txt"}})
	want := "Files with header issues (2)\na.txt\nb.txt\n"
	if b.String() != want {
		t.Fatalf("got %q, want %q", b.String(), want)
	}
}
