package preprocess

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/gnolang/hbs2jsx/internal/jsast"
)

// Patterns are matched with regexp2 in ECMAScript mode: the attribute pattern
// relies on negative lookahead, which RE2 does not provide. This is a regular
// approximation of the template grammar. Values containing escaped quotes are
// matched as-is.
const matchTimeout = 2 * time.Second

var (
	// any attribute assignment, e.g.: id='id' class="class" text=text data = "data" mustache={{name}}
	attributeRegex = mustCompile(`([\w:-]+)\s?=\s?["']?((?:.(?!["']?\s+(?:\S+)=|\s*\/?[>"']))+.)["']?`)

	// an opening mustache followed somewhere later by a closing block tag
	blockPairRegex = mustCompile(`\{\{.*\}\}.*\{\{/.*\}\}`)

	// the whole text is one bare mustache reference: {{name}}, {{ user.name }}
	bareMustacheRegex = mustCompile(`^\{\{\s?((?:this\.)?[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*)\s?\}\}$`)

	// leading literal, helper kind, argument, child content, closing kind, trailing literal
	conditionalRegex = mustCompile(`^([^{]*)\{\{#(if|unless)\s+([^}]*?)\s*\}\}(.*)\{\{/(if|unless)\s*\}\}([^{]*)$`)

	// a condition argument usable as a helper parameter
	pathRegex = mustCompile(`^(?:this\.)?[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*$`)
)

func mustCompile(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.ECMAScript)
	re.MatchTimeout = matchTimeout
	return re
}

// hasBlockPair reports whether s contains a block-statement open/close pair.
func hasBlockPair(s string) (bool, error) {
	return blockPairRegex.MatchString(s)
}

// bareMustacheReference returns the path referenced when s is exactly one
// mustache statement such as `{{name}}` or `{{user.name}}`.
func bareMustacheReference(s string) (string, bool, error) {
	m, err := bareMustacheRegex.FindStringMatch(s)
	if err != nil || m == nil {
		return "", false, err
	}
	name := m.GroupByNumber(1).String()
	if name == "this" {
		return "", false, nil
	}
	return name, true, nil
}

// conditional is the decomposition of a built-in conditional attribute value:
//
//	Leading{{#Kind Argument}}Child{{/CloseKind}}Trailing
type conditional struct {
	Leading   string
	Kind      string
	Argument  string
	Child     string
	CloseKind string
	Trailing  string
}

// decomposeConditional matches value against the built-in conditional shape.
// The child capture is greedy, so it spans up to the last closing tag.
func decomposeConditional(value string) (conditional, bool, error) {
	m, err := conditionalRegex.FindStringMatch(value)
	if err != nil || m == nil {
		return conditional{}, false, err
	}
	return conditional{
		Leading:   m.GroupByNumber(1).String(),
		Kind:      m.GroupByNumber(2).String(),
		Argument:  m.GroupByNumber(3).String(),
		Child:     m.GroupByNumber(4).String(),
		CloseKind: m.GroupByNumber(5).String(),
		Trailing:  m.GroupByNumber(6).String(),
	}, true, nil
}

func isPath(s string) (bool, error) {
	return pathRegex.MatchString(s)
}

// parameterName turns a condition path into a helper parameter name:
// `User.isActive` -> `userIsActive`, `this.open` -> `open`.
func parameterName(path string) string {
	path = strings.TrimPrefix(path, "this.")
	parts := strings.Split(path, ".")
	for i := 1; i < len(parts); i++ {
		parts[i] = capitalizeFirstLetter(parts[i])
	}
	name := lowercaseFirstLetter(strings.Join(parts, ""))
	if !jsast.IsIdentifier(name) {
		name = "_" + name
	}
	return name
}

// helperBaseName derives the helper name from the attribute and helper kind:
// `class` + `if` -> `classIfHelper`, `data-id` + `unless` -> `dataIdUnlessHelper`.
func helperBaseName(attributeName, kind string) string {
	parts := strings.FieldsFunc(strings.ToLower(attributeName), func(r rune) bool {
		return r == '-' || r == ':'
	})
	for i := 1; i < len(parts); i++ {
		parts[i] = capitalizeFirstLetter(parts[i])
	}
	return strings.Join(parts, "") + capitalizeFirstLetter(kind) + "Helper"
}

func capitalizeFirstLetter(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lowercaseFirstLetter(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
