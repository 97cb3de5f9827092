package program

import "github.com/gnolang/hbs2jsx/internal/jsast"

// scope is one level of template context. Blocks that shift context (each,
// with) set context; block params and @data variables are bound in locals
// and data.
type scope struct {
	parent  *scope
	context jsast.Expression
	locals  map[string]jsast.Expression
	data    map[string]jsast.Expression
}

func (s *scope) child(context jsast.Expression) *scope {
	return &scope{
		parent:  s,
		context: context,
		locals:  make(map[string]jsast.Expression),
		data:    make(map[string]jsast.Expression),
	}
}

// ancestor walks up depth context-shifting levels, as `../` does.
func (s *scope) ancestor(depth int) *scope {
	for s.parent != nil && depth > 0 {
		if s.context != nil {
			depth--
		}
		s = s.parent
	}
	return s
}

func (s *scope) local(name string) (jsast.Expression, bool) {
	for ; s != nil; s = s.parent {
		if e, ok := s.locals[name]; ok {
			return e, true
		}
	}
	return nil, false
}

func (s *scope) dataVar(name string) (jsast.Expression, bool) {
	for ; s != nil; s = s.parent {
		if e, ok := s.data[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// isRoot reports whether s resolves `this` to the component props.
func (s *scope) isRoot() bool {
	for ; s != nil; s = s.parent {
		if s.context != nil {
			return false
		}
	}
	return true
}

func (s *scope) contextExpr() jsast.Expression {
	for ; s != nil; s = s.parent {
		if s.context != nil {
			return s.context
		}
	}
	return nil
}
