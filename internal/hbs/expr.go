package hbs

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenWord   tokenKind = iota // path, number or keyword
	tokenString                  // "..." or '...'
	tokenLParen                  // (
	tokenRParen                  // )
	tokenEquals                  // =
	tokenPipe                    // |
)

type token struct {
	kind   tokenKind
	value  string
	offset int
}

func tokenize(content string, base int) ([]token, error) {
	var toks []token
	i := 0
	for i < len(content) {
		c := content[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case c == '(':
			toks = append(toks, token{kind: tokenLParen, value: "(", offset: base + i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokenRParen, value: ")", offset: base + i})
			i++
		case c == '=':
			toks = append(toks, token{kind: tokenEquals, value: "=", offset: base + i})
			i++
		case c == '|':
			toks = append(toks, token{kind: tokenPipe, value: "|", offset: base + i})
			i++
		case c == '"' || c == '\'':
			end := strings.IndexByte(content[i+1:], c)
			if end < 0 {
				return nil, errorf(base+i, "unterminated string literal")
			}
			toks = append(toks, token{kind: tokenString, value: content[i+1 : i+1+end], offset: base + i})
			i += end + 2
		default:
			start := i
			for i < len(content) && !unicode.IsSpace(rune(content[i])) && !strings.ContainsRune("()=|\"'", rune(content[i])) {
				i++
			}
			toks = append(toks, token{kind: tokenWord, value: content[start:i], offset: base + start})
		}
	}
	return toks, nil
}

// call is the parsed content of a mustache or block tag.
type call struct {
	head        Expression
	params      []Expression
	hash        []*HashPair
	blockParams []string
}

type exprParser struct {
	toks []token
	pos  int
	end  int // offset used for errors at end of input
}

// parseCall parses `head param... key=value... [as |a b|]`.
func parseCall(content string, base int) (call, error) {
	toks, err := tokenize(content, base)
	if err != nil {
		return call{}, err
	}
	p := &exprParser{toks: toks, end: base + len(content)}
	if len(toks) == 0 {
		return call{}, errorf(base, "empty expression")
	}

	head, err := p.expression()
	if err != nil {
		return call{}, err
	}
	c := call{head: head}
	c.params, c.hash, err = p.arguments(false)
	if err != nil {
		return call{}, err
	}

	if p.peekWord("as") && p.peekKind(1, tokenPipe) {
		p.pos += 2
		for !p.done() && p.toks[p.pos].kind == tokenWord {
			c.blockParams = append(c.blockParams, p.toks[p.pos].value)
			p.pos++
		}
		if p.done() || p.toks[p.pos].kind != tokenPipe || len(c.blockParams) == 0 {
			return call{}, errorf(p.offset(), "malformed block params")
		}
		p.pos++
	}
	if !p.done() {
		return call{}, errorf(p.offset(), "unexpected %q", p.toks[p.pos].value)
	}
	return c, nil
}

func (p *exprParser) done() bool { return p.pos >= len(p.toks) }

func (p *exprParser) offset() int {
	if p.done() {
		return p.end
	}
	return p.toks[p.pos].offset
}

func (p *exprParser) peekWord(w string) bool {
	return !p.done() && p.toks[p.pos].kind == tokenWord && p.toks[p.pos].value == w
}

func (p *exprParser) peekKind(ahead int, k tokenKind) bool {
	i := p.pos + ahead
	return i < len(p.toks) && p.toks[i].kind == k
}

// arguments reads params and hash pairs until the end of input, a closing
// paren (when nested) or block params.
func (p *exprParser) arguments(nested bool) ([]Expression, []*HashPair, error) {
	var params []Expression
	var hash []*HashPair
	for !p.done() {
		t := p.toks[p.pos]
		if t.kind == tokenRParen && nested {
			break
		}
		if p.peekWord("as") && p.peekKind(1, tokenPipe) {
			break
		}
		if t.kind == tokenWord && p.peekKind(1, tokenEquals) {
			p.pos += 2
			v, err := p.expression()
			if err != nil {
				return nil, nil, err
			}
			hash = append(hash, &HashPair{Key: t.value, Value: v})
			continue
		}
		if len(hash) > 0 {
			return nil, nil, errorf(t.offset, "positional parameter after hash argument")
		}
		e, err := p.expression()
		if err != nil {
			return nil, nil, err
		}
		params = append(params, e)
	}
	return params, hash, nil
}

func (p *exprParser) expression() (Expression, error) {
	if p.done() {
		return nil, errorf(p.end, "expected expression")
	}
	t := p.toks[p.pos]
	p.pos++

	switch t.kind {
	case tokenString:
		return &StringLiteral{Value: t.value, Offset: t.offset}, nil
	case tokenLParen:
		if p.done() || p.toks[p.pos].kind != tokenWord {
			return nil, errorf(t.offset, "sub-expression must start with a helper name")
		}
		head := p.toks[p.pos]
		p.pos++
		path, err := parsePath(head.value, head.offset)
		if err != nil {
			return nil, err
		}
		params, hash, err := p.arguments(true)
		if err != nil {
			return nil, err
		}
		if p.done() {
			return nil, errorf(t.offset, "unterminated sub-expression")
		}
		p.pos++ // )
		return &SubExpression{Path: path, Params: params, Hash: hash, Offset: t.offset}, nil
	case tokenWord:
		return literalOrPath(t)
	}
	return nil, errorf(t.offset, "unexpected %q", t.value)
}

func literalOrPath(t token) (Expression, error) {
	switch t.value {
	case "true", "false":
		return &BooleanLiteral{Value: t.value == "true", Offset: t.offset}, nil
	case "null", "undefined":
		return &NullLiteral{Offset: t.offset}, nil
	}
	if c := t.value[0]; c == '-' || (c >= '0' && c <= '9') {
		if f, err := strconv.ParseFloat(t.value, 64); err == nil {
			return &NumberLiteral{Value: f, Offset: t.offset}, nil
		}
	}
	return parsePath(t.value, t.offset)
}

// parsePath parses `a.b`, `a/b`, `this.a`, `./a`, `../a` and `@index`.
func parsePath(original string, offset int) (*PathExpression, error) {
	path := &PathExpression{Original: original, Offset: offset}
	s := original

	if strings.HasPrefix(s, "@") {
		path.Data = true
		s = s[1:]
	}
	for strings.HasPrefix(s, "../") {
		path.Depth++
		s = s[3:]
	}
	switch {
	case s == "this" || s == ".":
		path.This = true
		s = ""
	case strings.HasPrefix(s, "this."), strings.HasPrefix(s, "this/"):
		path.This = true
		s = s[5:]
	case strings.HasPrefix(s, "./"):
		path.This = true
		s = s[2:]
	}
	if s == "" {
		if path.Data || !path.This && path.Depth == 0 {
			return nil, errorf(offset, "invalid path %q", original)
		}
		return path, nil
	}

	for _, seg := range strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '/' }) {
		path.Parts = append(path.Parts, seg)
	}
	if len(path.Parts) == 0 || strings.Contains(s, "..") || strings.HasSuffix(s, ".") || strings.HasPrefix(s, ".") {
		return nil, errorf(offset, "invalid path %q", original)
	}
	return path, nil
}
