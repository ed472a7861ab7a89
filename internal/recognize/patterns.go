package recognize

import "regexp"

// The literal dots in these patterns are left unescaped on purpose: OCR
// regularly turns periods into commas or stray glyphs and the wildcard keeps
// those variants recognizable.
var (
	modernHeader = regexp.MustCompile(`^UNCLASSIFIED U.S. Department of State Case No. (F-\d{4}-\d*) Doc No. (C\d*) Date: (\d\d/\d\d/\d{4})`)
	legacyFooter = regexp.MustCompile(`^UNCLASSIFIED\s*STATE DEPT. - PRODUCED TO HOUSE SELECT BENGHAZI COMM.`)
)

// documentStart is the prefix every released document begins with. A bare
// line holding only this text is also the page header of the legacy layout.
const documentStart = "UNCLASSIFIED"

type marker struct {
	name string
	re   *regexp.Regexp
}

// blockMarkers are the continuation lines of a legacy header block, in the
// order they must appear.
var blockMarkers = []marker{
	{"U.S. Department of State", regexp.MustCompile(`^U.S. Department of State`)},
	{"Case No.", regexp.MustCompile(`^Case No.`)},
	{"Doc No.", regexp.MustCompile(`^Doc No.`)},
	{"Date", regexp.MustCompile(`^Date`)},
}

// IsModernHeader reports whether line is a complete single-line release
// header.
func IsModernHeader(line string) bool { return modernHeader.MatchString(line) }

// IsBlockStart reports whether line opens a legacy multi-line header block.
func IsBlockStart(line string) bool {
	return line == documentStart || legacyFooter.MatchString(line)
}
