package formatter

// UnsupportedAttributeBlockFormatter adds a note on what the attribute
// rewriter accepts.
type UnsupportedAttributeBlockFormatter struct{}

func (f *UnsupportedAttributeBlockFormatter) DiagnosticTemplate() string {
	return `{{header .Rule .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{note .Note}}
`
}
