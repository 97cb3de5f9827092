package jsast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// operator precedence, higher binds tighter
const (
	precLowest      = 0
	precArrow       = 2
	precConditional = 3
	precOr          = 4
	precAnd         = 5
	precEquality    = 10
	precRelational  = 11
	precAdditive    = 13
	precMultiply    = 14
	precUnary       = 15
	precCall        = 18
	precPrimary     = 20
)

// Print renders n as JavaScript source. Program statements are separated by
// newlines; the output carries no trailing newline.
func Print(n Node) string {
	p := &printer{}
	p.node(n)
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) write(s string) { p.sb.WriteString(s) }

func (p *printer) node(n Node) {
	switch v := n.(type) {
	case *Program:
		for i, s := range v.Body {
			if i > 0 {
				p.write("\n")
			}
			p.node(s)
		}
	case Statement:
		p.statement(v)
	case Expression:
		p.expr(v, precLowest)
	case *JSXText:
		p.jsxText(v)
	case *JSXAttribute:
		p.jsxAttribute(v)
	case *VariableDeclarator:
		p.declarator(v)
	default:
		panic(fmt.Sprintf("jsast: cannot print %T", n))
	}
}

func (p *printer) statement(s Statement) {
	switch v := s.(type) {
	case *VariableDeclaration:
		p.write(v.Kind)
		p.write(" ")
		for i, d := range v.Declarations {
			if i > 0 {
				p.write(", ")
			}
			p.declarator(d)
		}
		p.write(";")
	case *ImportDeclaration:
		p.write("import ")
		p.write(v.Default)
		p.write(" from ")
		p.write(quote(v.Source))
		p.write(";")
	case *ExportDefaultDeclaration:
		p.write("export default ")
		p.expr(v.Declaration, precArrow)
		p.write(";")
	case *ExpressionStatement:
		// a leading `{` would open a block
		if _, ok := v.Expression.(*ObjectExpression); ok {
			p.write("(")
			p.expr(v.Expression, precLowest)
			p.write(");")
			return
		}
		p.expr(v.Expression, precLowest)
		p.write(";")
	default:
		panic(fmt.Sprintf("jsast: unknown statement %T", s))
	}
}

func (p *printer) declarator(d *VariableDeclarator) {
	p.write(d.ID.Name)
	if d.Init != nil {
		p.write(" = ")
		p.expr(d.Init, precArrow)
	}
}

func precedence(e Expression) int {
	switch v := e.(type) {
	case *ArrowFunctionExpression:
		return precArrow
	case *ConditionalExpression:
		return precConditional
	case *LogicalExpression:
		if v.Operator == "||" {
			return precOr
		}
		return precAnd
	case *BinaryExpression:
		return binaryPrecedence(v.Operator)
	case *UnaryExpression:
		return precUnary
	case *CallExpression, *MemberExpression:
		return precCall
	default:
		return precPrimary
	}
}

func binaryPrecedence(op string) int {
	switch op {
	case "===", "!==", "==", "!=":
		return precEquality
	case "<", ">", "<=", ">=":
		return precRelational
	case "+", "-":
		return precAdditive
	default:
		return precMultiply
	}
}

func (p *printer) expr(e Expression, min int) {
	if precedence(e) < min {
		p.write("(")
		p.expr(e, precLowest)
		p.write(")")
		return
	}

	switch v := e.(type) {
	case *Identifier:
		p.write(v.Name)
	case *StringLiteral:
		p.write(quote(v.Value))
	case *NumericLiteral:
		p.write(strconv.FormatFloat(v.Value, 'f', -1, 64))
	case *BooleanLiteral:
		p.write(strconv.FormatBool(v.Value))
	case *NullLiteral:
		p.write("null")
	case *UnaryExpression:
		p.write(v.Operator)
		p.expr(v.Argument, precUnary)
	case *BinaryExpression:
		prec := binaryPrecedence(v.Operator)
		p.expr(v.Left, prec)
		p.write(" " + v.Operator + " ")
		p.expr(v.Right, prec+1)
	case *LogicalExpression:
		prec := precedence(v)
		p.expr(v.Left, prec)
		p.write(" " + v.Operator + " ")
		p.expr(v.Right, prec+1)
	case *ConditionalExpression:
		p.expr(v.Test, precOr)
		p.write(" ? ")
		p.expr(v.Consequent, precArrow)
		p.write(" : ")
		p.expr(v.Alternate, precArrow)
	case *ArrowFunctionExpression:
		p.write("(")
		for i, param := range v.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.Name)
		}
		p.write(") => ")
		if _, ok := v.Body.(*ObjectExpression); ok {
			p.write("(")
			p.expr(v.Body, precLowest)
			p.write(")")
			return
		}
		p.expr(v.Body, precArrow)
	case *CallExpression:
		p.expr(v.Callee, precCall)
		p.write("(")
		for i, arg := range v.Arguments {
			if i > 0 {
				p.write(", ")
			}
			p.expr(arg, precArrow)
		}
		p.write(")")
	case *MemberExpression:
		p.expr(v.Object, precCall)
		if v.Computed {
			p.write("[")
			p.expr(v.Property, precLowest)
			p.write("]")
			return
		}
		p.write(".")
		p.expr(v.Property, precPrimary)
	case *ObjectExpression:
		if len(v.Properties) == 0 {
			p.write("{}")
			return
		}
		p.write("{ ")
		for i, prop := range v.Properties {
			if i > 0 {
				p.write(", ")
			}
			if IsIdentifier(prop.Key) {
				p.write(prop.Key)
			} else {
				p.write(quote(prop.Key))
			}
			p.write(": ")
			p.expr(prop.Value, precArrow)
		}
		p.write(" }")
	case *JSXElement:
		p.jsxElement(v)
	case *JSXFragment:
		p.write("<>")
		p.jsxChildren(v.Children)
		p.write("</>")
	case *JSXExpressionContainer:
		p.write("{")
		p.expr(v.Expression, precArrow)
		p.write("}")
	default:
		panic(fmt.Sprintf("jsast: unknown expression %T", e))
	}
}

func (p *printer) jsxElement(el *JSXElement) {
	p.write("<")
	p.write(el.Name)
	for _, a := range el.Attributes {
		p.write(" ")
		p.jsxAttribute(a)
	}
	if len(el.Children) == 0 {
		p.write(" />")
		return
	}
	p.write(">")
	p.jsxChildren(el.Children)
	p.write("</")
	p.write(el.Name)
	p.write(">")
}

func (p *printer) jsxChildren(children []JSXChild) {
	for _, c := range children {
		switch v := c.(type) {
		case *JSXText:
			p.jsxText(v)
		case Expression:
			p.expr(v, precLowest)
		}
	}
}

func (p *printer) jsxAttribute(a *JSXAttribute) {
	p.write(a.Name)
	if a.Value == nil {
		return
	}
	p.write("=")
	if s, ok := a.Value.(*StringLiteral); ok && !strings.ContainsAny(s.Value, "\"\\\n\r") {
		p.write(`"` + s.Value + `"`)
		return
	}
	if _, ok := a.Value.(*JSXExpressionContainer); ok {
		p.expr(a.Value, precLowest)
		return
	}
	p.write("{")
	p.expr(a.Value, precArrow)
	p.write("}")
}

// JSX text cannot carry braces or angle brackets; such text is emitted as a
// string expression instead.
func (p *printer) jsxText(t *JSXText) {
	if strings.ContainsAny(t.Value, "{}<>") {
		p.write("{")
		p.write(quote(t.Value))
		p.write("}")
		return
	}
	p.write(t.Value)
}

// quote renders s as a double-quoted JavaScript string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// IsIdentifier reports whether s is a valid, non-reserved JavaScript identifier name.
func IsIdentifier(s string) bool {
	if s == "" || reserved[s] {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "false": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "null": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "true": true, "try": true,
	"typeof": true, "var": true, "void": true, "while": true, "with": true,
	"yield": true, "let": true, "static": true, "enum": true, "await": true,
}
