// Package normalize strips trailing classification marks that release
// tooling stamps at the end of OCR lines.
package normalize

import "regexp"

var (
	// B5, B6, B7(C),B7(E) ... with the separators in front of them.
	exemptionCodes = regexp.MustCompile(`(\s*\bB\d(\([A-Z]\))?,)*\s*\bB\d(\([A-Z]\))?$`)
	fullOrPart     = regexp.MustCompile(`\s*\b(FULL|PART)$`)
	releaseIn      = regexp.MustCompile(`\s*\bRELEASE IN$`)
)

// Line removes trailing exemption codes, then a FULL/PART token, then a
// RELEASE IN token. The strips run once each, in that order, so a compound
// marking such as "RELEASE IN PART B5,B6" cuts down to nothing.
func Line(s string) string {
	s = exemptionCodes.ReplaceAllString(s, "")
	s = fullOrPart.ReplaceAllString(s, "")
	s = releaseIn.ReplaceAllString(s, "")
	return s
}
