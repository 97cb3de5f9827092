// Package jsast defines the JavaScript/JSX syntax tree the compiler emits,
// together with constructors, a printer and a small evaluator.
package jsast

// Node is any element of the target syntax tree.
type Node interface {
	node()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expr()
}

// Statement is a top-level program statement.
type Statement interface {
	Node
	stmt()
}

// JSXChild is a node that may appear between a JSX opening and closing tag.
type JSXChild interface {
	Node
	jsxChild()
}

type Identifier struct {
	Name string
}

type StringLiteral struct {
	Value string
}

type NumericLiteral struct {
	Value float64
}

type BooleanLiteral struct {
	Value bool
}

type NullLiteral struct{}

type UnaryExpression struct {
	Operator string
	Argument Expression
}

// BinaryExpression covers arithmetic and comparison operators.
type BinaryExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

// LogicalExpression covers && and ||.
type LogicalExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

type ConditionalExpression struct {
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

type ArrowFunctionExpression struct {
	Params []*Identifier
	Body   Expression
}

type CallExpression struct {
	Callee    Expression
	Arguments []Expression
}

// MemberExpression is `Object.Property`, or `Object[Property]` when Computed.
type MemberExpression struct {
	Object   Expression
	Property Expression
	Computed bool
}

type ObjectProperty struct {
	Key   string
	Value Expression
}

type ObjectExpression struct {
	Properties []*ObjectProperty
}

// JSXAttribute holds a StringLiteral, a *JSXExpressionContainer, or nil for a
// valueless (boolean) attribute.
type JSXAttribute struct {
	Name  string
	Value Expression
}

type JSXElement struct {
	Name       string
	Attributes []*JSXAttribute
	Children   []JSXChild
}

type JSXFragment struct {
	Children []JSXChild
}

type JSXText struct {
	Value string
}

type JSXExpressionContainer struct {
	Expression Expression
}

type VariableDeclarator struct {
	ID   *Identifier
	Init Expression
}

// VariableDeclaration is `Kind a = x, b = y;`. Synthesized attribute helpers
// are always a single const declarator initialized with an arrow function.
type VariableDeclaration struct {
	Kind         string
	Declarations []*VariableDeclarator
}

// ImportDeclaration is `import Default from "Source";`.
type ImportDeclaration struct {
	Default string
	Source  string
}

type ExportDefaultDeclaration struct {
	Declaration Expression
}

type ExpressionStatement struct {
	Expression Expression
}

type Program struct {
	Body []Statement
}

func (*Identifier) node()               {}
func (*StringLiteral) node()            {}
func (*NumericLiteral) node()           {}
func (*BooleanLiteral) node()           {}
func (*NullLiteral) node()              {}
func (*UnaryExpression) node()          {}
func (*BinaryExpression) node()         {}
func (*LogicalExpression) node()        {}
func (*ConditionalExpression) node()    {}
func (*ArrowFunctionExpression) node()  {}
func (*CallExpression) node()           {}
func (*MemberExpression) node()         {}
func (*ObjectExpression) node()         {}
func (*JSXAttribute) node()             {}
func (*JSXElement) node()               {}
func (*JSXFragment) node()              {}
func (*JSXText) node()                  {}
func (*JSXExpressionContainer) node()   {}
func (*VariableDeclarator) node()       {}
func (*VariableDeclaration) node()      {}
func (*ImportDeclaration) node()        {}
func (*ExportDefaultDeclaration) node() {}
func (*ExpressionStatement) node()      {}
func (*Program) node()                  {}

func (*Identifier) expr()              {}
func (*StringLiteral) expr()           {}
func (*NumericLiteral) expr()          {}
func (*BooleanLiteral) expr()          {}
func (*NullLiteral) expr()             {}
func (*UnaryExpression) expr()         {}
func (*BinaryExpression) expr()        {}
func (*LogicalExpression) expr()       {}
func (*ConditionalExpression) expr()   {}
func (*ArrowFunctionExpression) expr() {}
func (*CallExpression) expr()          {}
func (*MemberExpression) expr()        {}
func (*ObjectExpression) expr()        {}
func (*JSXElement) expr()              {}
func (*JSXFragment) expr()             {}
func (*JSXExpressionContainer) expr()  {}

func (*VariableDeclaration) stmt()      {}
func (*ImportDeclaration) stmt()        {}
func (*ExportDefaultDeclaration) stmt() {}
func (*ExpressionStatement) stmt()      {}

func (*JSXElement) jsxChild()             {}
func (*JSXFragment) jsxChild()            {}
func (*JSXText) jsxChild()                {}
func (*JSXExpressionContainer) jsxChild() {}

// Name returns the declared name of a single-declarator declaration.
func (d *VariableDeclaration) Name() string {
	if len(d.Declarations) == 0 || d.Declarations[0].ID == nil {
		return ""
	}
	return d.Declarations[0].ID.Name
}
