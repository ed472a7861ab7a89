package extract

import (
	"path/filepath"
	"strings"
)

// Extractor turns the decoded bytes of one input file into lines.
type Extractor interface {
	Extract(input []byte) Document
}

// TextExtractor handles plain-text renditions.
type TextExtractor struct{}

func (TextExtractor) Extract(input []byte) Document { return FromText(input) }

// HTMLExtractor handles HTML-wrapped renditions.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(input []byte) Document { return FromHTML(input) }

// ForPath picks an extractor from the file extension.
func ForPath(path string) Extractor {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return HTMLExtractor{}
	default:
		return TextExtractor{}
	}
}
