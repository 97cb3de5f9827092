package hbs2jsx

import (
	"errors"
	"os"
	"strings"
	"unicode/utf8"
)

// SourceCode stores the content of a template file.
type SourceCode struct {
	Text  string
	Lines []string
}

// ReadSourceCode reads a template file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(string(content)), nil
}

func NewSourceCode(text string) *SourceCode {
	return &SourceCode{Text: text, Lines: strings.Split(text, "\n")}
}

// Position is a 1-based line and column. Column counts runes.
type Position struct {
	Line   int
	Column int
}

// Position converts a byte offset into a line and column. Offsets past the
// end clamp to the last position.
func (s *SourceCode) Position(offset int) Position {
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	if offset < 0 {
		offset = 0
	}
	before := s.Text[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Position{Line: line, Column: utf8.RuneCountInString(before[lineStart:]) + 1}
}

// ErrorSpan extracts the byte span an error refers to. Length is at least 1.
// Parse and build errors point into the preprocessed template, which only
// differs from the source after a rewritten attribute.
func ErrorSpan(err error) (offset, length int, ok bool) {
	var unsupported *UnsupportedConstructError
	if errors.As(err, &unsupported) {
		return unsupported.Offset, max(unsupported.Length, 1), true
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Offset, 1, true
	}
	var berr *BuildError
	if errors.As(err, &berr) {
		return berr.Offset, 1, true
	}
	return 0, 0, false
}
