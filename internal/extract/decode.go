package extract

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is assumed when no input encoding is configured.
const DefaultEncoding = "utf-8"

// LookupEncoding resolves a WHATWG encoding label such as "utf-8",
// "windows-1252" or "latin1".
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Decode converts data from enc to UTF-8. A leading byte order mark selects
// the matching Unicode encoding instead and is dropped.
func Decode(data []byte, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		enc = unicode.UTF8
	}
	dec := unicode.BOMOverride(enc.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}
