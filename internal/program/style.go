package program

import (
	"strings"

	"github.com/gnolang/hbs2jsx/internal/jsast"
)

// styleObject converts an inline CSS declaration list into a JSX style
// object: `background-color: red; -webkit-gap: 1px` becomes
// `{ backgroundColor: "red", WebkitGap: "1px" }`.
func styleObject(css string) *jsast.ObjectExpression {
	obj := jsast.Object()
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		prop, value = strings.TrimSpace(prop), strings.TrimSpace(value)
		if !ok || prop == "" {
			continue
		}
		obj.Properties = append(obj.Properties, jsast.Prop(styleKey(prop), jsast.Str(value)))
	}
	return obj
}

func styleKey(prop string) string {
	if strings.HasPrefix(prop, "--") {
		return prop
	}
	prop = strings.ToLower(prop)
	var sb strings.Builder
	upper := false
	for i, r := range prop {
		if r == '-' {
			// vendor prefixes keep a leading capital, except -ms-
			upper = i > 0 || !strings.HasPrefix(prop, "-ms-")
			continue
		}
		if upper {
			sb.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
