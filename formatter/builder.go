package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/gnolang/hbs2jsx"
)

const tabWidth = 8

// rule set
const (
	UnsupportedAttributeBlock = "unsupported-attribute-block"
	ParseError                = "parse-error"
	BuildError                = "build-error"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// diagnosticFormatter is the interface that wraps the DiagnosticTemplate method.
// Implementations of this interface are responsible for formatting specific kinds of compile errors.
type diagnosticFormatter interface {
	DiagnosticTemplate() string
}

// getDiagnosticFormatter is a factory function that returns the appropriate formatter
// based on the given rule.
// If no specific formatter is found for the given rule, it returns a GeneralFormatter.
func getDiagnosticFormatter(rule string) diagnosticFormatter {
	switch rule {
	case UnsupportedAttributeBlock:
		return &UnsupportedAttributeBlockFormatter{}
	default:
		return &GeneralFormatter{}
	}
}

// Rule classifies a compile error.
func Rule(err error) string {
	var unsupported *hbs2jsx.UnsupportedConstructError
	var perr *hbs2jsx.ParseError
	var berr *hbs2jsx.BuildError
	switch {
	case errors.As(err, &unsupported):
		return UnsupportedAttributeBlock
	case errors.As(err, &perr):
		return ParseError
	case errors.As(err, &berr):
		return BuildError
	}
	return ""
}

// FormatError renders a compile error of the template in filename as a
// snippet of the offending source with the span underlined. Errors without
// a source location are rendered as a single line.
func FormatError(filename string, err error, src *hbs2jsx.SourceCode) string {
	offset, length, ok := hbs2jsx.ErrorSpan(err)
	if !ok || src == nil {
		return errorStyle.Sprint("error: ") + fileStyle.Sprint(filename) + ": " + messageStyle.Sprintf("%v\n", err)
	}

	rule := Rule(err)
	start := src.Position(offset)
	end := src.Position(offset + length - 1)
	return buildDiagnostic(Diagnostic{
		Rule:     rule,
		Filename: filename,
		Start:    start,
		End:      end,
		Message:  err.Error(),
		Note:     noteFor(rule),
		Lines:    src.Lines,
	}, getDiagnosticFormatter(rule))
}

func noteFor(rule string) string {
	if rule == UnsupportedAttributeBlock {
		return "only a single {{#if}} or {{#unless}} block with plain text or one {{reference}} inside can be used in an attribute value"
	}
	return ""
}

/***** Diagnostic Formatter Builder *****/

type Diagnostic struct {
	Rule     string
	Filename string
	Start    hbs2jsx.Position
	End      hbs2jsx.Position
	Message  string
	Note     string
	Lines    []string
}

type diagnosticData struct {
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	Note            string
	SnippetLines    []string
	CommonIndent    string
}

func buildDiagnostic(d Diagnostic, formatter diagnosticFormatter) string {
	startLine, endLine := d.Start.Line, d.End.Line
	maxLineNumWidth := calculateMaxLineNumWidth(endLine)
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	var commonIndent string
	if isValidLineRange(startLine, endLine, d.Lines) {
		commonIndent = findCommonIndent(d.Lines[startLine-1 : endLine])
	}

	rule := d.Rule
	if rule == "" {
		rule = "compile-error"
	}

	data := diagnosticData{
		Rule:            rule,
		Filename:        d.Filename,
		StartLine:       startLine,
		StartColumn:     d.Start.Column,
		EndLine:         endLine,
		EndColumn:       d.End.Column,
		Message:         d.Message,
		Note:            d.Note,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         padding,
		CommonIndent:    commonIndent,
		SnippetLines:    d.Lines,
	}

	funcMap := template.FuncMap{
		"header":              header,
		"note":                note,
		"snippet":             codeSnippet,
		"underlineAndMessage": underlineAndMessage,
	}

	tmpl := template.Must(template.New("diagnostic").Funcs(funcMap).Parse(formatter.DiagnosticTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting diagnostic: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(rule string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	endString := errorStyle.Sprintf("error: ")
	endString += ruleStyle.Sprintf("%s\n", rule)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d\n", filename, startLine, startColumn)

	return endString
}

func codeSnippet(snippetLines []string, startLine int, endLine int, maxLineNumWidth int, commonIndent string, padding string) string {
	var endString string
	endString = lineStyle.Sprintf("%s|\n", padding)

	for i := startLine; i <= endLine; i++ {
		if i-1 < 0 || i-1 >= len(snippetLines) {
			continue
		}

		line := strings.TrimPrefix(snippetLines[i-1], commonIndent)
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i)

		endString += lineStyle.Sprintf("%s | ", lineNum) + fmt.Sprintf("%s\n", expandTabs(line))
	}

	return endString
}

// underlineAndMessage marks the span on its first line. A span that runs
// onto later lines is underlined to the end of the first one.
func underlineAndMessage(message string, padding string, startLine int, endLine int, startColumn int, endColumn int, snippetLines []string, commonIndent string) string {
	var endString string
	endString = lineStyle.Sprintf("%s| ", padding)

	if !isValidLineRange(startLine, endLine, snippetLines) {
		endString += messageStyle.Sprintf("%s\n", message)
		return endString
	}

	line := strings.TrimPrefix(snippetLines[startLine-1], commonIndent)
	indentRunes := len([]rune(commonIndent))

	underlineStart := calculateVisualColumn(line, startColumn-indentRunes)
	var underlineEnd int
	if endLine == startLine {
		underlineEnd = calculateVisualColumn(line, endColumn-indentRunes+1)
	} else {
		underlineEnd = calculateVisualColumn(line, len([]rune(line))+1)
	}
	underlineLength := underlineEnd - underlineStart
	if underlineLength < 1 {
		underlineLength = 1
	}

	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", underlineLength))

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)

	return endString
}

func note(note string) string {
	if note == "" {
		return ""
	}
	return suggestionStyle.Sprint("note: ") + fmt.Sprintf("%s\n", note)
}

func isValidLineRange(startLine int, endLine int, snippetLines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		startLine <= len(snippetLines) &&
		endLine <= len(snippetLines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// calculateVisualColumn returns the visual width of the runes before the
// 1-based rune column, expanding tabs.
func calculateVisualColumn(line string, column int) int {
	if column < 1 {
		return 0
	}
	visualColumn := 0
	i := 1
	for _, ch := range line {
		if i >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
		i++
	}
	return visualColumn
}

// expandTabs replaces tab characters with spaces, considering a tab width of 8
func expandTabs(line string) string {
	var expanded strings.Builder
	column := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (column % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			column += spaceCount
			continue
		}
		expanded.WriteRune(ch)
		column++
	}
	return expanded.String()
}

// findCommonIndent finds the common indent in the code snippet.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	// find first non-empty line's indent
	var firstIndent []rune
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			firstIndent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}

	if len(firstIndent) == 0 {
		return ""
	}

	// search common indent for all non-empty lines
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}

		currentIndent := []rune(line[:len(line)-len(trimmed)])
		firstIndent = commonPrefix(firstIndent, currentIndent)

		if len(firstIndent) == 0 {
			break
		}
	}

	return string(firstIndent)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
