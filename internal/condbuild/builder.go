// Package condbuild is the fluent construction surface for condition trees.
//
// A chain starts with Attribute, Attr, Not, Group, GroupExpr or Start and
// grows left to right:
//
//	tree, err := condbuild.Attribute("name", cond.TypeOf[string]()).Eq("Test").
//	    And().Not().Attribute("viewCount", cond.TypeOf[int]()).Between(4, 99).
//	    Build()
//
// Every append links the current tail to the new node and advances the tail;
// the tree is never re-traversed. The first construction error is kept and
// returned by Build or ToExpression; calls after it are no-ops. Builders are
// not safe for concurrent use.
package condbuild

import (
	"reflect"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
)

// root is the state shared by every builder of one chain.
type root struct {
	expr    *cond.Expression
	start   cond.Connectable
	current cond.Connectable
	err     error
}

func newRoot(expr *cond.Expression) *root {
	r := &root{expr: expr}
	if expr != nil {
		r.start = expr
		r.current = expr
	}
	return r
}

func (r *root) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// handle appends n. Without a conjunction type, n becomes the condition of a
// rooted expression or, for an empty chain, the start element; only the first
// such element is kept as start.
func (r *root) handle(t cond.ConjunctionType, n cond.Connectable) {
	if r.err != nil {
		return
	}
	if t != 0 {
		if _, err := cond.Link(r.current, t, n); err != nil {
			r.fail(err)
			return
		}
		r.current = n
		return
	}
	if r.expr != nil {
		r.expr.SetCondition(n)
	} else if r.start == nil {
		r.start = n
	}
	r.current = n
}

// ExpressionBuilder is returned after every complete condition or group.
type ExpressionBuilder struct {
	root *root
}

// And appends the next node with an AND conjunction.
func (b *ExpressionBuilder) And() *ConnectBuilder {
	return &ConnectBuilder{root: b.root, conj: cond.And}
}

// Or appends the next node with an OR conjunction.
func (b *ExpressionBuilder) Or() *ConnectBuilder {
	return &ConnectBuilder{root: b.root, conj: cond.Or}
}

// Build returns the first node of the chain: a condition or an expression,
// whichever was built first.
func (b *ExpressionBuilder) Build() (cond.Connectable, error) {
	if b.root.err != nil {
		return nil, b.root.err
	}
	return b.root.start, nil
}

// ToExpression wraps the chain in a new Expression. It always wraps, even if
// the chain already starts with an expression.
func (b *ExpressionBuilder) ToExpression() (*cond.Expression, error) {
	if b.root.err != nil {
		return nil, b.root.err
	}
	if b.root.start == nil {
		return nil, errors.Wrap(errors.ErrNilArgument, "no condition for the new expression given")
	}
	return cond.NewExpression(b.root.start), nil
}

// ConnectBuilder chooses the node appended after And, Or or Not.
type ConnectBuilder struct {
	root   *root
	conj   cond.ConjunctionType
	negate bool
}

// Not negates the next condition or group.
func (b *ConnectBuilder) Not() *ConnectBuilder {
	return &ConnectBuilder{root: b.root, conj: b.conj, negate: true}
}

// Attribute starts a condition on the named attribute.
func (b *ConnectBuilder) Attribute(name string, typ reflect.Type) *ConditionBuilder {
	return &ConditionBuilder{root: b.root, name: name, typ: typ, conj: b.conj, negate: b.negate}
}

// Attr starts a condition on a declared attribute.
func (b *ConnectBuilder) Attr(d cond.AttributeData) *ConditionBuilder {
	return b.Attribute(d.Name, d.Type)
}

// Group appends the chain of g wrapped in a new expression.
func (b *ConnectBuilder) Group(g *ExpressionBuilder) *ExpressionBuilder {
	if g == nil {
		b.root.fail(errors.Wrap(errors.ErrNilArgument, "no group given"))
		return &ExpressionBuilder{root: b.root}
	}
	e, err := g.ToExpression()
	if err != nil {
		b.root.fail(err)
		return &ExpressionBuilder{root: b.root}
	}
	return b.GroupExpr(e)
}

// GroupExpr appends e. Its negate flag is overwritten with whether Not
// preceded the call.
func (b *ConnectBuilder) GroupExpr(e *cond.Expression) *ExpressionBuilder {
	if e == nil {
		b.root.fail(errors.Wrap(errors.ErrNilArgument, "no group given"))
		return &ExpressionBuilder{root: b.root}
	}
	e.SetNegate(b.negate)
	b.root.handle(b.conj, e)
	return &ExpressionBuilder{root: b.root}
}

// Attribute starts a new chain with a condition on the named attribute.
func Attribute(name string, typ reflect.Type) *ConditionBuilder {
	return (&ConnectBuilder{root: newRoot(nil)}).Attribute(name, typ)
}

// Attr starts a new chain with a condition on a declared attribute.
func Attr(d cond.AttributeData) *ConditionBuilder {
	return Attribute(d.Name, d.Type)
}

// Start begins a new chain; the next call on the returned builder chooses
// its first node. It suits callers that pick the node kind at runtime.
func Start() *ConnectBuilder {
	return &ConnectBuilder{root: newRoot(nil)}
}

// Not starts a new chain whose first condition or group is negated.
func Not() *ConnectBuilder {
	return &ConnectBuilder{root: newRoot(nil), negate: true}
}

// Group starts a new chain rooted at the chain of g wrapped in a new
// expression.
func Group(g *ExpressionBuilder) *ExpressionBuilder {
	if g == nil {
		r := newRoot(nil)
		r.fail(errors.Wrap(errors.ErrNilArgument, "no group given"))
		return &ExpressionBuilder{root: r}
	}
	e, err := g.ToExpression()
	if err != nil {
		r := newRoot(nil)
		r.fail(err)
		return &ExpressionBuilder{root: r}
	}
	return GroupExpr(e)
}

// GroupExpr starts a new chain rooted at e. Appended nodes link from e.
func GroupExpr(e *cond.Expression) *ExpressionBuilder {
	r := newRoot(e)
	if e == nil {
		r.fail(errors.Wrap(errors.ErrNilArgument, "no group given"))
	}
	return &ExpressionBuilder{root: r}
}
