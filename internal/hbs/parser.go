package hbs

import (
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// frame is an open element or block on the parser stack.
type frame struct {
	element *ElementNode
	block   *BlockStatement
	// chained marks the implicit block opened by `{{else if ...}}`; it is
	// closed together with its parent.
	chained bool
	body    *[]Statement
}

type parser struct {
	stack   []*frame
	pending *ElementNode
}

// Parse parses template text into a syntax tree. Markup is tokenized with
// the tdewolff HTML lexer; text runs and attribute values are then split on
// mustache delimiters.
func Parse(text string) (*Template, error) {
	tpl := &Template{}
	p := &parser{stack: []*frame{{body: &tpl.Body}}}

	l := html.NewLexer(parse.NewInputString(text))
	offset := 0
	for {
		tt, data := l.Next()
		start := offset
		offset += len(data)

		var err error
		switch tt {
		case html.ErrorToken:
			if lexErr := l.Err(); lexErr != nil && !errors.Is(lexErr, io.EOF) {
				return nil, errorf(start, "%v", lexErr)
			}
			if err := p.finish(); err != nil {
				return nil, err
			}
			return tpl, nil
		case html.TextToken:
			err = p.text(string(data), start)
		case html.StartTagToken:
			p.pending = &ElementNode{Tag: string(l.Text()), Offset: start}
		case html.AttributeToken:
			err = p.attribute(string(l.Text()), string(l.AttrVal()), start)
		case html.StartTagCloseToken:
			p.openElement(false)
		case html.StartTagVoidToken:
			p.openElement(true)
		case html.EndTagToken:
			err = p.closeElement(string(l.Text()), start)
		case html.SvgToken, html.MathToken:
			err = errorf(start, "inline svg and math markup is not supported")
		case html.CommentToken, html.DoctypeToken:
			// dropped
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) top() *frame { return p.stack[len(p.stack)-1] }

func (p *parser) append(s Statement) {
	f := p.top()
	*f.body = append(*f.body, s)
}

func (p *parser) push(f *frame) { p.stack = append(p.stack, f) }

func (p *parser) pop() *frame {
	f := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

func (p *parser) text(s string, offset int) error {
	pieces, err := splitMustaches(s, offset)
	if err != nil {
		return err
	}
	for _, pc := range pieces {
		switch pc.kind {
		case pieceText:
			p.append(&TextNode{Chars: pc.content, Offset: pc.offset})
		case pieceMustache, pieceTriple:
			m, err := mustache(pc)
			if err != nil {
				return err
			}
			p.append(m)
		case pieceOpen:
			if err := p.openBlock(pc, false); err != nil {
				return err
			}
		case pieceElse:
			if err := p.elseBlock(pc); err != nil {
				return err
			}
		case pieceClose:
			if err := p.closeBlock(pc); err != nil {
				return err
			}
		}
	}
	return nil
}

func mustache(pc piece) (*MustacheStatement, error) {
	c, err := parseCall(pc.content, pc.offset)
	if err != nil {
		return nil, err
	}
	if c.blockParams != nil {
		return nil, errorf(pc.offset, "block params are only allowed on block statements")
	}
	return &MustacheStatement{
		Path:     c.head,
		Params:   c.params,
		Hash:     c.hash,
		Trusting: pc.kind == pieceTriple,
		Offset:   pc.offset,
	}, nil
}

func (p *parser) openBlock(pc piece, chained bool) error {
	c, err := parseCall(pc.content, pc.offset)
	if err != nil {
		return err
	}
	path, ok := c.head.(*PathExpression)
	if !ok {
		return errorf(pc.offset, "block helper name must be a path")
	}
	block := &BlockStatement{
		Path:    path,
		Params:  c.params,
		Hash:    c.hash,
		Program: &Block{BlockParams: c.blockParams},
		Offset:  pc.offset,
	}
	p.append(block)
	p.push(&frame{block: block, chained: chained, body: &block.Program.Body})
	return nil
}

func (p *parser) elseBlock(pc piece) error {
	f := p.top()
	if f.block == nil {
		if f.element != nil {
			return errorf(pc.offset, "{{else}} inside unclosed <%s>", f.element.Tag)
		}
		return errorf(pc.offset, "{{else}} outside of a block")
	}
	if f.block.Inverse != nil {
		return errorf(pc.offset, "duplicate {{else}} in {{#%s}}", f.block.Path.Original)
	}
	f.block.Inverse = &Block{}
	f.body = &f.block.Inverse.Body

	if pc.content == "" {
		return nil
	}
	// {{else if x}} opens a block that ends with the enclosing one
	return p.openBlock(pc, true)
}

func (p *parser) closeBlock(pc piece) error {
	for {
		f := p.top()
		if f.block == nil {
			if f.element != nil {
				return errorf(pc.offset, "{{/%s}} closes a block while <%s> is still open", pc.content, f.element.Tag)
			}
			return errorf(pc.offset, "{{/%s}} without a matching block", pc.content)
		}
		p.pop()
		if f.chained {
			continue
		}
		if f.block.Path.Original != pc.content {
			return errorf(pc.offset, "{{#%s}} closed by {{/%s}}", f.block.Path.Original, pc.content)
		}
		return nil
	}
}

func (p *parser) attribute(name, raw string, offset int) error {
	if p.pending == nil {
		return errorf(offset, "attribute outside of a tag")
	}
	if strings.Contains(name, "{{") {
		return errorf(offset, "mustaches are not supported in attribute position")
	}
	attr := &AttrNode{Name: name, Offset: offset}
	p.pending.Attributes = append(p.pending.Attributes, attr)
	if raw == "" {
		return nil
	}

	value := unquote(raw)
	pieces, err := splitMustaches(value, offset)
	if err != nil {
		return err
	}

	var parts []Statement
	for _, pc := range pieces {
		switch {
		case isBlockPiece(pc.kind):
			return errorf(pc.offset, "block statements are not supported inside attribute values (attribute %q)", name)
		case pc.kind == pieceText:
			parts = append(parts, &TextNode{Chars: pc.content, Offset: pc.offset})
		case pc.kind == pieceMustache || pc.kind == pieceTriple:
			m, err := mustache(pc)
			if err != nil {
				return err
			}
			parts = append(parts, m)
		}
	}

	switch len(parts) {
	case 0:
		attr.Value = &TextNode{Offset: offset}
	case 1:
		attr.Value = parts[0]
	default:
		attr.Value = &ConcatStatement{Parts: parts, Offset: offset}
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func (p *parser) openElement(selfClosing bool) {
	el := p.pending
	p.pending = nil
	if el == nil {
		return
	}
	el.SelfClosing = selfClosing || voidElements[strings.ToLower(el.Tag)]
	p.append(el)
	if !el.SelfClosing {
		p.push(&frame{element: el, body: &el.Children})
	}
}

func (p *parser) closeElement(tag string, offset int) error {
	if voidElements[strings.ToLower(tag)] {
		return nil
	}
	f := p.top()
	switch {
	case f.block != nil:
		return errorf(offset, "</%s> closes an element while {{#%s}} is still open", tag, f.block.Path.Original)
	case f.element == nil:
		return errorf(offset, "unexpected </%s>", tag)
	case !strings.EqualFold(f.element.Tag, tag):
		return errorf(offset, "<%s> closed by </%s>", f.element.Tag, tag)
	}
	p.pop()
	return nil
}

func (p *parser) finish() error {
	if p.pending != nil {
		return errorf(p.pending.Offset, "unterminated <%s> tag", p.pending.Tag)
	}
	f := p.top()
	switch {
	case f.element != nil:
		return errorf(f.element.Offset, "<%s> is never closed", f.element.Tag)
	case f.block != nil:
		return errorf(f.block.Offset, "{{#%s}} is never closed", f.block.Path.Original)
	}
	return nil
}
