package formatter

import (
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightLexer     = "react"
	highlightFormatter = "terminal256"
	DefaultStyle       = "monokai"
)

// Highlight writes JSX source to w with terminal color escapes.
func Highlight(w io.Writer, source, style string) error {
	if style == "" {
		style = DefaultStyle
	}
	return quick.Highlight(w, source, highlightLexer, highlightFormatter, style)
}
