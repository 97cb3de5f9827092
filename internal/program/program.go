// Package program turns a parsed template into a JavaScript program whose
// body renders the template as JSX.
package program

import (
	"fmt"
	"strings"

	"github.com/gnolang/hbs2jsx/internal/hbs"
	"github.com/gnolang/hbs2jsx/internal/jsast"
)

const (
	contextName = "props"
	reactName   = "React"
	reactModule = "react"
)

type Options struct {
	// IsComponent wraps the JSX in an arrow function component.
	IsComponent bool
	// IsModule exports the result as the module default.
	IsModule bool
	// IncludeImport emits the React import. Ignored unless IsModule is set.
	IncludeImport bool
	// IncludeContext declares the props parameter even when the template
	// never reads from its context.
	IncludeContext bool
}

var attributeNames = map[string]string{
	"class": "className",
	"for":   "htmlFor",
}

type builder struct {
	helpers     map[string]bool
	usesContext bool
	eachDepth   int
}

// Build converts tpl into a program. helpers are hoisted, in order, between
// the optional import and the rendered template; mustaches naming a helper
// call it.
func Build(tpl *hbs.Template, helpers []*jsast.VariableDeclaration, opts Options) (*jsast.Program, error) {
	b := &builder{helpers: make(map[string]bool, len(helpers))}
	for _, h := range helpers {
		b.helpers[h.Name()] = true
	}

	root := (&scope{}).child(nil)
	children, err := b.children(tpl.Body, root)
	if err != nil {
		return nil, err
	}

	var body jsast.Expression
	if len(children) == 1 {
		if el, ok := children[0].(*jsast.JSXElement); ok {
			body = el
		}
	}
	if body == nil {
		body = jsast.Fragment(children...)
	}

	if opts.IsComponent {
		var params []*jsast.Identifier
		if b.usesContext || opts.IncludeContext {
			params = append(params, jsast.Ident(contextName))
		}
		body = jsast.Arrow(params, body)
	}

	prog := jsast.NewProgram()
	if opts.IsModule && opts.IncludeImport {
		prog.Body = append(prog.Body, jsast.Import(reactName, reactModule))
	}
	for _, h := range helpers {
		prog.Body = append(prog.Body, h)
	}
	if opts.IsModule {
		prog.Body = append(prog.Body, jsast.ExportDefault(body))
	} else {
		prog.Body = append(prog.Body, jsast.ExprStmt(body))
	}
	return prog, nil
}

func (b *builder) children(body []hbs.Statement, s *scope) ([]jsast.JSXChild, error) {
	var out []jsast.JSXChild
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *hbs.TextNode:
			if text, ok := normalizeText(n.Chars); ok {
				out = append(out, jsast.Text(text))
			}
		case *hbs.ElementNode:
			el, err := b.element(n, s)
			if err != nil {
				return nil, err
			}
			out = append(out, el)
		case *hbs.MustacheStatement:
			e, err := b.mustache(n, s)
			if err != nil {
				return nil, err
			}
			out = append(out, jsast.Container(e))
		case *hbs.BlockStatement:
			e, err := b.block(n, s)
			if err != nil {
				return nil, err
			}
			out = append(out, jsast.Container(e))
		default:
			return nil, errorf(stmt.Pos(), "unexpected %T in element body", stmt)
		}
	}
	return out, nil
}

// normalizeText applies JSX whitespace rules to text that spans lines:
// surrounding blanks are trimmed and blank-only text is dropped.
func normalizeText(s string) (string, bool) {
	if !strings.ContainsAny(s, "\r\n") {
		return s, s != ""
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func (b *builder) element(n *hbs.ElementNode, s *scope) (*jsast.JSXElement, error) {
	attrs := make([]*jsast.JSXAttribute, 0, len(n.Attributes))
	for _, a := range n.Attributes {
		attr, err := b.attribute(a, s)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	children, err := b.children(n.Children, s)
	if err != nil {
		return nil, err
	}
	return jsast.Element(n.Tag, attrs, children...), nil
}

func (b *builder) attribute(a *hbs.AttrNode, s *scope) (*jsast.JSXAttribute, error) {
	name := a.Name
	if renamed, ok := attributeNames[strings.ToLower(name)]; ok {
		name = renamed
	}

	switch v := a.Value.(type) {
	case nil:
		return jsast.Attr(name, nil), nil
	case *hbs.TextNode:
		if name == "style" {
			return jsast.Attr(name, jsast.Container(styleObject(v.Chars))), nil
		}
		return jsast.Attr(name, jsast.Str(v.Chars)), nil
	case *hbs.MustacheStatement:
		e, err := b.mustache(v, s)
		if err != nil {
			return nil, err
		}
		return jsast.Attr(name, jsast.Container(e)), nil
	case *hbs.ConcatStatement:
		parts := make([]jsast.Expression, 0, len(v.Parts))
		for _, part := range v.Parts {
			switch p := part.(type) {
			case *hbs.TextNode:
				parts = append(parts, jsast.Str(p.Chars))
			case *hbs.MustacheStatement:
				e, err := b.mustache(p, s)
				if err != nil {
					return nil, err
				}
				parts = append(parts, e)
			default:
				return nil, errorf(part.Pos(), "unexpected %T in attribute %q", part, a.Name)
			}
		}
		return jsast.Attr(name, jsast.Container(jsast.Concat(parts...))), nil
	}
	return nil, errorf(a.Offset, "unexpected attribute value %T", a.Value)
}

func (b *builder) mustache(n *hbs.MustacheStatement, s *scope) (jsast.Expression, error) {
	path, ok := n.Path.(*hbs.PathExpression)
	if !ok {
		if len(n.Params) > 0 || len(n.Hash) > 0 {
			return nil, errorf(n.Offset, "a literal cannot be called as a helper")
		}
		return b.expression(n.Path, s)
	}
	return b.call(path, n.Params, n.Hash, s)
}

// call resolves `path params... hash...`: a bare path is a context lookup
// unless it names a known helper; anything with arguments is a helper call.
func (b *builder) call(path *hbs.PathExpression, params []hbs.Expression, hash []*hbs.HashPair, s *scope) (jsast.Expression, error) {
	if len(params) == 0 && len(hash) == 0 {
		if path.IsSimple() && b.helpers[path.Head()] {
			return jsast.Call(jsast.Ident(path.Head())), nil
		}
		return b.path(path, s)
	}
	if !path.IsSimple() || !jsast.IsIdentifier(path.Head()) {
		return nil, errorf(path.Offset, "helper name %q must be a simple identifier", path.Original)
	}

	args := make([]jsast.Expression, 0, len(params)+1)
	for _, p := range params {
		e, err := b.expression(p, s)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	if len(hash) > 0 {
		obj := jsast.Object()
		for _, pair := range hash {
			e, err := b.expression(pair.Value, s)
			if err != nil {
				return nil, err
			}
			obj.Properties = append(obj.Properties, jsast.Prop(pair.Key, e))
		}
		args = append(args, obj)
	}
	return jsast.Call(jsast.Ident(path.Head()), args...), nil
}

func (b *builder) expression(e hbs.Expression, s *scope) (jsast.Expression, error) {
	switch v := e.(type) {
	case *hbs.PathExpression:
		return b.path(v, s)
	case *hbs.SubExpression:
		return b.call(v.Path, v.Params, v.Hash, s)
	case *hbs.StringLiteral:
		return jsast.Str(v.Value), nil
	case *hbs.NumberLiteral:
		return jsast.Num(v.Value), nil
	case *hbs.BooleanLiteral:
		return jsast.Bool(v.Value), nil
	case *hbs.NullLiteral:
		return jsast.Null(), nil
	}
	return nil, errorf(e.Pos(), "unexpected expression %T", e)
}

// path resolves a context lookup against the scope chain.
func (b *builder) path(p *hbs.PathExpression, s *scope) (jsast.Expression, error) {
	if p.Data {
		head := p.Head()
		if head == "root" {
			return member(b.props(), p.Parts[1:]), nil
		}
		e, ok := s.dataVar(head)
		if !ok {
			return nil, errorf(p.Offset, "@%s is not available here", head)
		}
		return member(e, p.Parts[1:]), nil
	}

	if !p.This && p.Depth == 0 {
		if e, ok := s.local(p.Head()); ok {
			return member(e, p.Parts[1:]), nil
		}
	}

	target := s.ancestor(p.Depth)
	if target.isRoot() {
		return member(b.props(), p.Parts), nil
	}
	return member(target.contextExpr(), p.Parts), nil
}

func (b *builder) props() jsast.Expression {
	b.usesContext = true
	return jsast.Ident(contextName)
}

// member chains property reads; segments that are not identifiers, such as
// `items.0`, use computed access.
func member(obj jsast.Expression, parts []string) jsast.Expression {
	for _, part := range parts {
		if jsast.IsIdentifier(part) {
			obj = jsast.Member(obj, part)
		} else {
			obj = jsast.Index(obj, jsast.Str(part))
		}
	}
	return obj
}

func (b *builder) block(n *hbs.BlockStatement, s *scope) (jsast.Expression, error) {
	switch n.Path.Original {
	case "if", "unless":
		return b.conditional(n, s)
	case "each":
		return b.each(n, s)
	case "with":
		return b.with(n, s)
	}
	return nil, errorf(n.Offset, "unsupported block helper {{#%s}}", n.Path.Original)
}

func (b *builder) subject(n *hbs.BlockStatement, s *scope) (jsast.Expression, error) {
	if len(n.Params) != 1 || len(n.Hash) > 0 {
		return nil, errorf(n.Offset, "{{#%s}} takes exactly one argument", n.Path.Original)
	}
	return b.expression(n.Params[0], s)
}

func (b *builder) inverse(n *hbs.BlockStatement, s *scope) (jsast.Expression, error) {
	if n.Inverse == nil {
		return jsast.Null(), nil
	}
	return b.blockBody(n.Inverse.Body, s)
}

func (b *builder) conditional(n *hbs.BlockStatement, s *scope) (jsast.Expression, error) {
	test, err := b.subject(n, s)
	if err != nil {
		return nil, err
	}
	if n.Path.Original == "unless" {
		test = jsast.Not(test)
	}
	consequent, err := b.blockBody(n.Program.Body, s)
	if err != nil {
		return nil, err
	}
	alternate, err := b.inverse(n, s)
	if err != nil {
		return nil, err
	}
	return jsast.Cond(test, consequent, alternate), nil
}

func (b *builder) each(n *hbs.BlockStatement, s *scope) (jsast.Expression, error) {
	collection, err := b.subject(n, s)
	if err != nil {
		return nil, err
	}

	b.eachDepth++
	defer func() { b.eachDepth-- }()
	itemName, indexName := "item", "index"
	if b.eachDepth > 1 {
		itemName = fmt.Sprintf("item%d", b.eachDepth)
		indexName = fmt.Sprintf("index%d", b.eachDepth)
	}
	params := n.Program.BlockParams
	if len(params) > 0 {
		itemName = params[0]
	}
	if len(params) > 1 {
		indexName = params[1]
	}
	if len(params) > 2 {
		return nil, errorf(n.Offset, "{{#each}} takes at most two block params")
	}
	item, index := jsast.Ident(itemName), jsast.Ident(indexName)

	inner := s.child(item)
	if len(params) > 0 {
		// named block params leave the context unchanged
		inner.context = nil
		inner.locals[itemName] = item
		if len(params) > 1 {
			inner.locals[indexName] = index
		}
	}
	inner.data["index"] = index
	inner.data["key"] = index
	inner.data["first"] = jsast.Binary("===", index, jsast.Num(0))

	body, err := b.blockBody(n.Program.Body, inner)
	if err != nil {
		return nil, err
	}
	mapped := jsast.Call(jsast.Member(collection, "map"), jsast.Arrow([]*jsast.Identifier{item, index}, body))
	if n.Inverse == nil {
		return mapped, nil
	}
	alternate, err := b.inverse(n, s)
	if err != nil {
		return nil, err
	}
	return jsast.Cond(jsast.Member(collection, "length"), mapped, alternate), nil
}

func (b *builder) with(n *hbs.BlockStatement, s *scope) (jsast.Expression, error) {
	value, err := b.subject(n, s)
	if err != nil {
		return nil, err
	}

	inner := s.child(value)
	switch params := n.Program.BlockParams; len(params) {
	case 0:
	case 1:
		inner.context = nil
		inner.locals[params[0]] = value
	default:
		return nil, errorf(n.Offset, "{{#with}} takes at most one block param")
	}

	body, err := b.blockBody(n.Program.Body, inner)
	if err != nil {
		return nil, err
	}
	alternate, err := b.inverse(n, s)
	if err != nil {
		return nil, err
	}
	return jsast.Cond(value, body, alternate), nil
}

// blockBody renders a block's statements as a single expression: nothing is
// null, a lone element or mustache is used as is, text becomes a string and
// anything else is wrapped in a fragment.
func (b *builder) blockBody(body []hbs.Statement, s *scope) (jsast.Expression, error) {
	children, err := b.children(body, s)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return jsast.Null(), nil
	}
	if len(children) == 1 {
		switch c := children[0].(type) {
		case *jsast.JSXElement:
			return c, nil
		case *jsast.JSXExpressionContainer:
			return c.Expression, nil
		case *jsast.JSXText:
			return jsast.Str(c.Value), nil
		}
	}
	return jsast.Fragment(children...), nil
}
