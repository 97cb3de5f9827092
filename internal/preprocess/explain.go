package preprocess

import (
	"fmt"

	"github.com/gnolang/hbs2jsx/internal/jsast"
)

// Evaluation is one sample invocation of a helper.
type Evaluation struct {
	Args   []any  `json:"args"`
	Result string `json:"result"`
}

// Explain runs helper once with a truthy and once with a falsy condition.
// Parameters after the condition receive a placeholder string naming the
// parameter, e.g. "<name>".
func Explain(helper *jsast.VariableDeclaration) ([]Evaluation, error) {
	if len(helper.Declarations) != 1 {
		return nil, fmt.Errorf("helper %q: expected one declarator", helper.Name())
	}
	arrow, ok := helper.Declarations[0].Init.(*jsast.ArrowFunctionExpression)
	if !ok || len(arrow.Params) == 0 {
		return nil, fmt.Errorf("helper %q: expected an arrow function taking a condition", helper.Name())
	}

	var out []Evaluation
	for _, cond := range []bool{true, false} {
		args := []any{cond}
		for _, p := range arrow.Params[1:] {
			args = append(args, "<"+p.Name+">")
		}
		v, err := jsast.CallHelper(helper, args...)
		if err != nil {
			return nil, fmt.Errorf("helper %q: %w", helper.Name(), err)
		}
		out = append(out, Evaluation{Args: args, Result: jsast.ToString(v)})
	}
	return out, nil
}
