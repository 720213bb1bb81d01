// Package source holds the logical lines passed from the includer to the
// assembler.
package source

import "fmt"

// Line is a trimmed, comment-stripped SmallO line and where it came from.
// File and Number are zero for lines that were not read from disk.
type Line struct {
	Text   string
	File   string
	Number int
}

// Lines wraps plain text lines that have no file origin
func Lines(texts ...string) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Line{Text: t}
	}
	return lines
}

// Pos returns "file:line" or "" when the line has no origin
func (l Line) Pos() string {
	if l.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Number)
}

func (l Line) String() string {
	if pos := l.Pos(); pos != "" {
		return pos + ": " + l.Text
	}
	return l.Text
}
