package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is an OCR rendition split into physical lines.
type Document struct {
	Title string
	Lines []string
}

// SplitLines breaks text on newlines and trims surrounding whitespace from
// every line. A trailing newline does not produce an extra empty line.
func SplitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

// FromText reads a plain-text rendition.
func FromText(input []byte) Document {
	return Document{Lines: SplitLines(string(input))}
}

// FromHTML reads an HTML-wrapped rendition such as `pdftotext -htmlmeta`
// output. Text inside <pre> elements is taken verbatim; without any <pre>
// the text of <body> is used, with block elements breaking lines.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}
	title := ""
	if head := findFirst(node, "head"); head != nil {
		if t := findFirst(head, "title"); t != nil && t.FirstChild != nil {
			title = strings.TrimSpace(t.FirstChild.Data)
		}
	}

	var b strings.Builder
	pres := findAll(node, "pre")
	if len(pres) > 0 {
		for i, pre := range pres {
			if i > 0 {
				b.WriteString("\n")
			}
			collectText(&b, pre)
		}
	} else if body := findFirst(node, "body"); body != nil {
		collectText(&b, body)
	}
	return Document{Title: title, Lines: SplitLines(b.String())}
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			out = append(out, cur)
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return out
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "head":
			return
		case "br":
			b.WriteString("\n")
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr":
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr":
			b.WriteString("\n")
		}
	}
}
