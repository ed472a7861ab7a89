package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/foiaclean/internal/extract"
	"github.com/hyperifyio/foiaclean/internal/recognize"
)

// Problem reasons.
const (
	ReasonMalformedStart  = "malformed-start"
	ReasonMalformedHeader = "malformed-header"
	ReasonRead            = "read-error"
	ReasonDecode          = "decode-error"
	ReasonWrite           = "write-error"
	ReasonNameCollision   = "name-collision"
)

// Problem records why a file produced no output.
type Problem struct {
	Source string `json:"source" yaml:"source"`
	Reason string `json:"reason" yaml:"reason"`
	Detail string `json:"detail" yaml:"detail"`
	// Index and Line locate a malformed header block.
	Index *int   `json:"index,omitempty" yaml:"index,omitempty"`
	Line  string `json:"line,omitempty" yaml:"line,omitempty"`
}

// FileResult is the per-input record of a run.
type FileResult struct {
	Source     string   `json:"source"`
	Output     string   `json:"output,omitempty"`
	Title      string   `json:"title,omitempty"`
	InputLines int      `json:"input_lines"`
	Kept       int      `json:"kept_lines"`
	Consumed   int      `json:"consumed_lines"`
	Headers    int      `json:"headers"`
	Outcome    string   `json:"outcome,omitempty"`
	SHA256     string   `json:"sha256,omitempty"`
	Written    bool     `json:"written"`
	Problem    *Problem `json:"problem,omitempty"`
}

func (a *App) processFile(src, name string) FileResult {
	res := FileResult{Source: src}
	logger := log.With().Str("file", src).Logger()

	data, err := os.ReadFile(src)
	if err != nil {
		return a.fail(res, ReasonRead, err)
	}
	decoded, err := extract.Decode(data, a.enc)
	if err != nil {
		return a.fail(res, ReasonDecode, err)
	}
	doc := extract.ForPath(src).Extract(decoded)
	res.InputLines = len(doc.Lines)
	res.Title = doc.Title
	res.Output = a.out.PathFor(name)
	logger.Info().Str("output", res.Output).Int("lines", res.InputLines).Msg("processing")

	rec := recognize.New(recognize.WithSkipLines(a.cfg.SkipLines...), recognize.WithLogger(logger))
	cleaned, err := rec.Clean(doc.Lines)
	if err != nil {
		res.Output = ""
		return a.quarantine(res, err)
	}
	res.Kept = len(cleaned.Lines)
	res.Consumed = cleaned.Consumed
	res.Headers = cleaned.Headers
	res.Outcome = cleaned.Outcome.String()
	if res.Kept == 0 {
		logger.Warn().Str("outcome", res.Outcome).Msg("cleaned document is empty")
	}

	if a.cfg.DryRun {
		logger.Debug().Int("kept", res.Kept).Msg("dry run, not writing")
		return res
	}
	sum, err := a.out.WriteFile(name, []byte(strings.Join(cleaned.Lines, "\n")))
	if err != nil {
		res.Output = ""
		return a.fail(res, ReasonWrite, err)
	}
	res.SHA256 = sum
	res.Written = true
	return res
}

// quarantine converts a recognizer error into a problem record.
func (a *App) quarantine(res FileResult, err error) FileResult {
	p := &Problem{Source: res.Source, Detail: err.Error()}
	var he *recognize.HeaderError
	switch {
	case errors.As(err, &he):
		p.Reason = ReasonMalformedHeader
		idx := he.Index
		p.Index = &idx
		p.Line = he.Line
	case errors.Is(err, recognize.ErrMalformedStart):
		p.Reason = ReasonMalformedStart
	default:
		p.Reason = ReasonMalformedHeader
	}
	res.Problem = p
	log.Warn().Str("file", res.Source).Str("reason", p.Reason).Msg("document quarantined")
	return res
}

func (a *App) fail(res FileResult, reason string, err error) FileResult {
	res.Problem = &Problem{Source: res.Source, Reason: reason, Detail: err.Error()}
	log.Error().Err(err).Str("file", res.Source).Str("reason", reason).Msg("file failed")
	return res
}

func collisionResult(src, name string, first int) FileResult {
	err := fmt.Errorf("output name %s already used by input #%d", name, first)
	log.Warn().Str("file", src).Str("output", name).Msg("output name collision")
	return FileResult{
		Source:  src,
		Problem: &Problem{Source: src, Reason: ReasonNameCollision, Detail: err.Error()},
	}
}
