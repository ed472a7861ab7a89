// Package recognize removes State Department release banners from OCR text.
//
// Two layouts are recognized: the single-line header
//
//	UNCLASSIFIED U.S. Department of State Case No. F-2014-20439 Doc No. C05739546 Date: 05/13/2015
//
// and the older multi-line block that starts with a bare UNCLASSIFIED line
// (or the "PRODUCED TO HOUSE SELECT BENGHAZI COMM." footer) followed by the
// department, case number, document number and date lines. Anything that
// cannot be matched against these layouts quarantines the whole document.
package recognize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/foiaclean/internal/normalize"
)

// Outcome describes how a successfully cleaned document ended.
type Outcome int

const (
	// OutcomeComplete means the last line was handled by the main loop.
	OutcomeComplete Outcome = iota
	// OutcomeSkipExhausted means the document ended on skip-list lines.
	OutcomeSkipExhausted
	// OutcomeBlockExhausted means the document ended inside a legacy header
	// block whose lines matched so far.
	OutcomeBlockExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomeSkipExhausted:
		return "skip-exhausted"
	case OutcomeBlockExhausted:
		return "block-exhausted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is a cleaned document.
type Result struct {
	Lines    []string // retained normalized lines, in input order
	Consumed int      // lines dropped as headers, skip-list or block filler
	Headers  int      // header blocks and single-line headers removed
	Outcome  Outcome
}

// Recognizer cleans documents. It holds no per-document state and is safe
// for concurrent use.
type Recognizer struct {
	skip map[string]struct{}
	log  zerolog.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithSkipLines registers normalized line values that are noise wherever
// they appear.
func WithSkipLines(lines ...string) Option {
	return func(r *Recognizer) {
		for _, l := range lines {
			r.skip[l] = struct{}{}
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recognizer) { r.log = l }
}

// New builds a Recognizer. Without options the skip-list is empty and
// diagnostics go to the global zerolog logger.
func New(opts ...Option) *Recognizer {
	r := &Recognizer{skip: make(map[string]struct{}), log: log.Logger}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Recognizer) skipped(line string) bool {
	_, ok := r.skip[line]
	return ok
}

// Clean strips headers and footers from doc, whose lines must already be
// trimmed of surrounding whitespace. A non-nil error means the document is
// quarantined; it wraps ErrMalformedStart or ErrMalformedHeader and the
// returned Result is empty.
func (r *Recognizer) Clean(doc []string) (Result, error) {
	if len(doc) == 0 || !strings.HasPrefix(doc[0], documentStart) {
		first := ""
		if len(doc) > 0 {
			first = doc[0]
		}
		r.log.Warn().Str("line", first).Msg("document does not start with UNCLASSIFIED")
		return Result{}, fmt.Errorf("%w: %q", ErrMalformedStart, first)
	}

	cur := NewCursor(doc, normalize.Line)
	res := Result{Lines: make([]string, 0, len(doc))}

	for !cur.AtEnd() {
		_, line, _ := cur.Next()

		if r.skipped(line) {
			res.Consumed++
			if cur.AtEnd() {
				res.Outcome = OutcomeSkipExhausted
			}
			continue
		}

		if IsModernHeader(line) {
			res.Consumed++
			res.Headers++
			continue
		}

		if IsBlockStart(line) {
			// A page header followed directly by a single-line header is
			// body text; the single-line header is dropped next round.
			if line == documentStart && r.precedesModernHeader(*cur) {
				res.Lines = append(res.Lines, line)
				continue
			}
			n, exhausted, err := r.consumeBlock(cur)
			if err != nil {
				var he *HeaderError
				if errors.As(err, &he) {
					r.log.Warn().Int("index", he.Index).Str("line", he.Line).Str("expected", he.Expected).Msg("header problem")
				}
				return Result{}, err
			}
			res.Consumed += 1 + n
			if exhausted {
				res.Outcome = OutcomeBlockExhausted
				r.log.Debug().Int("index", cur.Pos()).Msg("document ended inside header block")
				break
			}
			res.Headers++
			continue
		}

		res.Lines = append(res.Lines, line)
	}
	return res, nil
}

// consumeBlock reads the continuation lines of a legacy header block. It
// returns how many lines it consumed and whether the document ran out before
// the last marker.
func (r *Recognizer) consumeBlock(cur *Cursor) (int, bool, error) {
	consumed := 0
	for _, m := range blockMarkers {
		idx, line, ok := r.nextSubstantive(cur, &consumed)
		if !ok {
			return consumed, true, nil
		}
		consumed++
		if !m.re.MatchString(line) {
			return consumed, false, &HeaderError{Index: idx, Line: line, Expected: m.name}
		}
	}
	return consumed, false, nil
}

// nextSubstantive consumes blank and skip-list lines, counting them into
// filler, and returns the first line that is neither.
func (r *Recognizer) nextSubstantive(cur *Cursor, filler *int) (int, string, bool) {
	for {
		idx, line, ok := cur.Next()
		if !ok {
			return idx, "", false
		}
		if line == "" || r.skipped(line) {
			*filler++
			continue
		}
		return idx, line, true
	}
}

// precedesModernHeader looks past blank and skip-list lines on a copy of the
// cursor.
func (r *Recognizer) precedesModernHeader(probe Cursor) bool {
	var filler int
	_, line, ok := r.nextSubstantive(&probe, &filler)
	return ok && IsModernHeader(line)
}
