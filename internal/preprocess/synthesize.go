package preprocess

import (
	"fmt"
	"strings"

	"github.com/gnolang/hbs2jsx/internal/jsast"
)

// ReplacementAttributeReference pairs a synthesized helper with the inline
// attribute text that invokes it and the original span that text replaces.
type ReplacementAttributeReference struct {
	Helper             *jsast.VariableDeclaration
	Attribute          string
	OriginalStartIndex int
	OriginalLength     int
}

// Synthesizer builds helpers for one rewrite pass and keeps their names
// unique within that pass. The zero value is not usable; see NewSynthesizer.
type Synthesizer struct {
	used map[string]int
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{used: make(map[string]int)}
}

// SynthesizeHelper rewrites a single attribute reference with a fresh name scope.
func SynthesizeHelper(ref AttributeReference) (ReplacementAttributeReference, error) {
	return NewSynthesizer().Synthesize(ref)
}

// claim returns base, or base with a numeric suffix when base was already
// handed out in this pass.
func (s *Synthesizer) claim(base string) string {
	s.used[base]++
	if n := s.used[base]; n > 1 {
		return fmt.Sprintf("%s%d", base, n)
	}
	return base
}

// Synthesize decomposes the conditional in ref.Value and returns the helper
// declaration plus the replacement attribute text. Values that are not a
// single built-in if/unless block fail with *UnsupportedConstructError.
func (s *Synthesizer) Synthesize(ref AttributeReference) (ReplacementAttributeReference, error) {
	cond, ok, err := decomposeConditional(ref.Value)
	if err != nil {
		return ReplacementAttributeReference{}, err
	}
	if !ok {
		return ReplacementAttributeReference{}, unsupported(ref, ref.Value, "only if/unless blocks can be used inside attributes")
	}
	if cond.CloseKind != cond.Kind {
		return ReplacementAttributeReference{}, unsupported(ref, ref.Value,
			fmt.Sprintf("{{#%s}} is closed by {{/%s}}", cond.Kind, cond.CloseKind))
	}

	nested, err := hasBlockPair(cond.Child)
	if err != nil {
		return ReplacementAttributeReference{}, err
	}
	if nested {
		return ReplacementAttributeReference{}, unsupported(ref, cond.Child, "nested block statements are not supported")
	}

	if ok, err := isPath(cond.Argument); err != nil {
		return ReplacementAttributeReference{}, err
	} else if !ok {
		return ReplacementAttributeReference{}, unsupported(ref, ref.Value,
			fmt.Sprintf("condition %q must be a simple path", cond.Argument))
	}

	dependent, isReference, err := bareMustacheReference(cond.Child)
	if err != nil {
		return ReplacementAttributeReference{}, err
	}
	if !isReference && strings.Contains(cond.Child, "{{") {
		return ReplacementAttributeReference{}, unsupported(ref, cond.Child,
			"conditional content must be plain text or a single {{reference}}")
	}

	name := s.claim(helperBaseName(ref.AttributeName, cond.Kind))

	var helper *jsast.VariableDeclaration
	var attribute string
	if isReference {
		helper, attribute = dependentChildHelper(ref.AttributeName, name, cond, dependent)
	} else {
		helper, attribute = literalHelper(ref.AttributeName, name, cond)
	}

	return ReplacementAttributeReference{
		Helper:             helper,
		Attribute:          attribute,
		OriginalStartIndex: ref.StartIndex,
		OriginalLength:     ref.Length,
	}, nil
}

// literalHelper builds
//
//	const name = (arg) => [!]arg ? "leading child trailing" : "leading trailing";
func literalHelper(attributeName, name string, cond conditional) (*jsast.VariableDeclaration, string) {
	arg := jsast.Ident(parameterName(cond.Argument))

	consequent := jsast.Str(cond.Leading + cond.Child + cond.Trailing)
	alternate := jsast.Str(cond.Leading + cond.Trailing)
	body := jsast.Cond(conditionCheck(cond.Kind, arg), consequent, alternate)

	helper := jsast.Const(name, jsast.Arrow([]*jsast.Identifier{arg}, body))
	attribute := fmt.Sprintf(`%s="{{%s %s}}"`, attributeName, name, cond.Argument)
	return helper, attribute
}

// dependentChildHelper builds a helper that threads the child reference
// through as a runtime argument, since its value is only known at render time:
//
//	const name = (arg, child) => [!]arg ? "leading" + child + "trailing" : "leading trailing";
func dependentChildHelper(attributeName, name string, cond conditional, dependent string) (*jsast.VariableDeclaration, string) {
	arg := jsast.Ident(parameterName(cond.Argument))
	child := jsast.Ident(parameterName(dependent))

	params := []*jsast.Identifier{arg, child}
	attribute := fmt.Sprintf(`%s="{{%s %s %s}}"`, attributeName, name, cond.Argument, dependent)
	switch {
	case dependent == cond.Argument:
		// `{{#if title}}{{title}}{{/if}}`: one parameter serves both roles
		child = arg
		params = params[:1]
		attribute = fmt.Sprintf(`%s="{{%s %s}}"`, attributeName, name, cond.Argument)
	case child.Name == arg.Name:
		// distinct paths such as `User` and `user` lower to the same name
		child = jsast.Ident(child.Name + "2")
		params[1] = child
	}

	var parts []jsast.Expression
	if cond.Leading != "" {
		parts = append(parts, jsast.Str(cond.Leading))
	}
	parts = append(parts, child)
	if cond.Trailing != "" {
		parts = append(parts, jsast.Str(cond.Trailing))
	}

	consequent := jsast.Concat(parts...)
	alternate := jsast.Str(cond.Leading + cond.Trailing)
	body := jsast.Cond(conditionCheck(cond.Kind, arg), consequent, alternate)

	helper := jsast.Const(name, jsast.Arrow(params, body))
	return helper, attribute
}

func conditionCheck(kind string, arg *jsast.Identifier) jsast.Expression {
	if kind == "unless" {
		return jsast.Not(arg)
	}
	return arg
}
