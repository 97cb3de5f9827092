// Package preprocess rewrites block statements embedded in attribute values,
// which the template parser cannot handle, into inline helper invocations.
//
// For each offending attribute such as
//
//	<span label="{{#if flag}}Yes{{/if}} please">
//
// the template is rewritten to
//
//	<span label="{{labelIfHelper flag}}">
//
// and a helper declaration is synthesized:
//
//	const labelIfHelper = (flag) => flag ? "Yes please" : " please";
//
// Only if/unless blocks without nested blocks are supported.
package preprocess

import "github.com/gnolang/hbs2jsx/internal/jsast"

// PreparedTemplate is a template the parser can consume, plus the helper
// declarations the rewritten template references, in source order.
type PreparedTemplate struct {
	Template string
	Helpers  []*jsast.VariableDeclaration
}

// PreProcessUnsupportedParserFeatures scans text for attributes containing
// block statements and replaces each with a helper call. A template without
// such attributes is returned unchanged with no helpers. The first
// unsupported construct aborts the pass.
func PreProcessUnsupportedParserFeatures(text string) (PreparedTemplate, error) {
	refs, err := ScanAttributes(text)
	if err != nil {
		return PreparedTemplate{}, err
	}
	if len(refs) == 0 {
		return PreparedTemplate{Template: text}, nil
	}

	syn := NewSynthesizer()
	replacements := make([]ReplacementAttributeReference, 0, len(refs))
	for _, ref := range refs {
		r, err := syn.Synthesize(ref)
		if err != nil {
			return PreparedTemplate{}, err
		}
		replacements = append(replacements, r)
	}

	template, err := Rewrite(text, replacements)
	if err != nil {
		return PreparedTemplate{}, err
	}

	helpers := make([]*jsast.VariableDeclaration, len(replacements))
	for i, r := range replacements {
		helpers[i] = r.Helper
	}
	return PreparedTemplate{Template: template, Helpers: helpers}, nil
}
