package recognize

// Cursor walks an indexed slice of raw lines and hands out transformed
// (normalized) values on demand. End of stream is reported through the ok
// return values and AtEnd; callers decide what exhaustion means for them.
//
// Cursor is a small value type: copying it yields an independent probe that
// can look ahead without moving the original.
type Cursor struct {
	lines     []string
	pos       int
	transform func(string) string
}

// NewCursor returns a cursor positioned at the first line. A nil transform
// leaves lines untouched.
func NewCursor(lines []string, transform func(string) string) *Cursor {
	return &Cursor{lines: lines, transform: transform}
}

// AtEnd reports whether every line has been consumed.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.lines) }

// Pos returns the index of the line Peek would return.
func (c *Cursor) Pos() int { return c.pos }

// Peek returns the index and transformed value of the current line without
// consuming it.
func (c *Cursor) Peek() (int, string, bool) {
	if c.AtEnd() {
		return c.pos, "", false
	}
	line := c.lines[c.pos]
	if c.transform != nil {
		line = c.transform(line)
	}
	return c.pos, line, true
}

// Advance consumes the current line. It is a no-op at the end.
func (c *Cursor) Advance() {
	if !c.AtEnd() {
		c.pos++
	}
}

// Next is Peek followed by Advance.
func (c *Cursor) Next() (int, string, bool) {
	idx, line, ok := c.Peek()
	if ok {
		c.pos++
	}
	return idx, line, ok
}
