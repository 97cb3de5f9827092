// Package hbs parses Handlebars templates embedded in HTML markup into a
// syntax tree. Block statements inside attribute values are rejected; run
// the template through the preprocess package first.
package hbs

// Node is any element of a template syntax tree. Pos is the byte offset of
// the node in the parsed text.
type Node interface {
	Pos() int
}

// Statement is a node that may appear in a template or element body.
type Statement interface {
	Node
	statement()
}

// Expression is a mustache head, parameter or hash value.
type Expression interface {
	Node
	expression()
}

type Template struct {
	Body []Statement
}

type ElementNode struct {
	Tag        string
	Attributes []*AttrNode
	Children   []Statement
	// SelfClosing is set for `<x />` and for void elements such as <br>.
	SelfClosing bool
	Offset      int
}

// AttrNode is a single attribute. Value is a *TextNode, *MustacheStatement or
// *ConcatStatement, or nil for a valueless attribute like `disabled`.
type AttrNode struct {
	Name   string
	Value  Statement
	Offset int
}

type TextNode struct {
	Chars  string
	Offset int
}

// MustacheStatement is `{{path params...}}`, or `{{{...}}}` when Trusting.
type MustacheStatement struct {
	Path     Expression
	Params   []Expression
	Hash     []*HashPair
	Trusting bool
	Offset   int
}

// BlockStatement is `{{#path params... as |blockParams|}}program{{else}}inverse{{/path}}`.
type BlockStatement struct {
	Path    *PathExpression
	Params  []Expression
	Hash    []*HashPair
	Program *Block
	Inverse *Block
	Offset  int
}

type Block struct {
	Body        []Statement
	BlockParams []string
}

// ConcatStatement is an attribute value mixing text and mustaches.
type ConcatStatement struct {
	Parts  []Statement
	Offset int
}

// PathExpression is a context lookup such as `name`, `this.user.name`,
// `../title` (Depth 1) or `@index` (Data).
type PathExpression struct {
	Original string
	This     bool
	Data     bool
	Depth    int
	Parts    []string
	Offset   int
}

type SubExpression struct {
	Path   *PathExpression
	Params []Expression
	Hash   []*HashPair
	Offset int
}

type HashPair struct {
	Key   string
	Value Expression
}

type StringLiteral struct {
	Value  string
	Offset int
}

type NumberLiteral struct {
	Value  float64
	Offset int
}

type BooleanLiteral struct {
	Value  bool
	Offset int
}

// NullLiteral stands for both `null` and `undefined`.
type NullLiteral struct {
	Offset int
}

func (n *ElementNode) Pos() int       { return n.Offset }
func (n *AttrNode) Pos() int          { return n.Offset }
func (n *TextNode) Pos() int          { return n.Offset }
func (n *MustacheStatement) Pos() int { return n.Offset }
func (n *BlockStatement) Pos() int    { return n.Offset }
func (n *ConcatStatement) Pos() int   { return n.Offset }
func (n *PathExpression) Pos() int    { return n.Offset }
func (n *SubExpression) Pos() int     { return n.Offset }
func (n *StringLiteral) Pos() int     { return n.Offset }
func (n *NumberLiteral) Pos() int     { return n.Offset }
func (n *BooleanLiteral) Pos() int    { return n.Offset }
func (n *NullLiteral) Pos() int       { return n.Offset }

func (*ElementNode) statement()       {}
func (*TextNode) statement()          {}
func (*MustacheStatement) statement() {}
func (*BlockStatement) statement()    {}
func (*ConcatStatement) statement()   {}

func (*PathExpression) expression() {}
func (*SubExpression) expression()  {}
func (*StringLiteral) expression()  {}
func (*NumberLiteral) expression()  {}
func (*BooleanLiteral) expression() {}
func (*NullLiteral) expression()    {}

// Head returns the first path segment, or "" for `this`.
func (p *PathExpression) Head() string {
	if len(p.Parts) == 0 {
		return ""
	}
	return p.Parts[0]
}

// IsSimple reports whether the path is a single plain identifier segment,
// the shape used to name helpers.
func (p *PathExpression) IsSimple() bool {
	return !p.This && !p.Data && p.Depth == 0 && len(p.Parts) == 1
}
