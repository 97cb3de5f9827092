package jsast

func Ident(name string) *Identifier { return &Identifier{Name: name} }

func Str(value string) *StringLiteral { return &StringLiteral{Value: value} }

func Num(value float64) *NumericLiteral { return &NumericLiteral{Value: value} }

func Bool(value bool) *BooleanLiteral { return &BooleanLiteral{Value: value} }

func Null() *NullLiteral { return &NullLiteral{} }

// Not negates e with the logical not operator.
func Not(e Expression) *UnaryExpression {
	return &UnaryExpression{Operator: "!", Argument: e}
}

func Binary(op string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

// Concat joins parts with left-associative `+`. A single part is returned unchanged.
func Concat(parts ...Expression) Expression {
	if len(parts) == 0 {
		return Str("")
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out = Binary("+", out, p)
	}
	return out
}

func And(left, right Expression) *LogicalExpression {
	return &LogicalExpression{Operator: "&&", Left: left, Right: right}
}

func Or(left, right Expression) *LogicalExpression {
	return &LogicalExpression{Operator: "||", Left: left, Right: right}
}

func Cond(test, consequent, alternate Expression) *ConditionalExpression {
	return &ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate}
}

func Arrow(params []*Identifier, body Expression) *ArrowFunctionExpression {
	return &ArrowFunctionExpression{Params: params, Body: body}
}

func Call(callee Expression, args ...Expression) *CallExpression {
	return &CallExpression{Callee: callee, Arguments: args}
}

// Member builds a dotted property access chain, e.g. Member(props, "user", "name").
func Member(object Expression, props ...string) Expression {
	out := object
	for _, p := range props {
		out = &MemberExpression{Object: out, Property: Ident(p)}
	}
	return out
}

func Index(object, property Expression) *MemberExpression {
	return &MemberExpression{Object: object, Property: property, Computed: true}
}

func Object(props ...*ObjectProperty) *ObjectExpression {
	return &ObjectExpression{Properties: props}
}

func Prop(key string, value Expression) *ObjectProperty {
	return &ObjectProperty{Key: key, Value: value}
}

// Const declares `const name = init`.
func Const(name string, init Expression) *VariableDeclaration {
	return &VariableDeclaration{
		Kind:         "const",
		Declarations: []*VariableDeclarator{{ID: Ident(name), Init: init}},
	}
}

func Element(name string, attrs []*JSXAttribute, children ...JSXChild) *JSXElement {
	return &JSXElement{Name: name, Attributes: attrs, Children: children}
}

func Fragment(children ...JSXChild) *JSXFragment {
	return &JSXFragment{Children: children}
}

func Text(value string) *JSXText { return &JSXText{Value: value} }

func Container(e Expression) *JSXExpressionContainer {
	return &JSXExpressionContainer{Expression: e}
}

func Attr(name string, value Expression) *JSXAttribute {
	return &JSXAttribute{Name: name, Value: value}
}

func Import(defaultName, source string) *ImportDeclaration {
	return &ImportDeclaration{Default: defaultName, Source: source}
}

func ExportDefault(e Expression) *ExportDefaultDeclaration {
	return &ExportDefaultDeclaration{Declaration: e}
}

func ExprStmt(e Expression) *ExpressionStatement {
	return &ExpressionStatement{Expression: e}
}

func NewProgram(body ...Statement) *Program {
	return &Program{Body: body}
}
