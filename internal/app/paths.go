package app

import (
	"path/filepath"
	"strings"
)

// outputName returns the cleaned file name for src: its base name with the
// extension replaced by .txt.
func outputName(src string) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}
