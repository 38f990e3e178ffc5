package cond

import (
	"reflect"

	"github.com/roach88/condkit/internal/errors"
)

// ValueCopier copies a single condition value.
type ValueCopier func(v any) any

// CopyOption configures Copy.
type CopyOption func(*copier)

// WithValueCopier installs a hook applied to every binary value and every
// element of a polyadic value list. Without it values are shared by
// reference.
func WithValueCopier(fn ValueCopier) CopyOption {
	return func(c *copier) {
		c.copyValue = fn
	}
}

// Copy builds an independent tree equal to node. Nodes, conjunctions and
// polyadic value lists are new; values themselves are shallow copies unless
// a ValueCopier is given. Cyclic input is refused.
func Copy(node Connectable, opts ...CopyOption) (Connectable, error) {
	if isNil(node) {
		return nil, nil
	}
	if err := CheckCycle(node); err != nil {
		return nil, err
	}
	c := &copier{
		copyValue: func(v any) any { return v },
		open:      newStack[*copyFrame](),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.open.Push(&copyFrame{})
	if err := Walk(c, node); err != nil {
		return nil, errors.Wrap(err, "copying expression")
	}
	return c.root, nil
}

// copyFrame is the chain currently being rebuilt: the top-level chain or the
// nested chain of an open expression.
type copyFrame struct {
	expr *Expression
	tail Connectable
}

type copier struct {
	copyValue ValueCopier
	open      *stack[*copyFrame]
	pending   ConjunctionType
	root      Connectable
}

func (c *copier) add(n Connectable) error {
	frame := c.open.Top()
	switch {
	case frame.tail != nil:
		conj, err := NewConjunction(c.pending, n)
		if err != nil {
			return err
		}
		frame.tail.SetConjunction(conj)
	case frame.expr != nil:
		frame.expr.SetCondition(n)
	default:
		c.root = n
	}
	frame.tail = n
	return nil
}

func (c *copier) StartExpression(negate bool) error {
	e := NewExpression(nil)
	e.SetNegate(negate)
	if err := c.add(e); err != nil {
		return err
	}
	c.open.Push(&copyFrame{expr: e})
	return nil
}

func (c *copier) EndExpression() error {
	c.open.Pop()
	return nil
}

func (c *copier) Conjunct(t ConjunctionType) error {
	c.pending = t
	return nil
}

func (c *copier) VisitUnaryCondition(negate bool, name string, typ reflect.Type, op Operator) error {
	n, err := NewUnaryCondition(typ, name, op)
	if err != nil {
		return err
	}
	n.SetNegate(negate)
	return c.add(n)
}

func (c *copier) VisitBinaryCondition(negate bool, name string, typ reflect.Type, op Operator, value any) error {
	n, err := NewBinaryCondition(typ, name, op, c.copyValue(value))
	if err != nil {
		return err
	}
	n.SetNegate(negate)
	return c.add(n)
}

func (c *copier) VisitPolyadicCondition(negate bool, name string, typ reflect.Type, op Operator, values []any) error {
	copied := make([]any, len(values))
	for i, v := range values {
		copied[i] = c.copyValue(v)
	}
	n, err := NewPolyadicCondition(typ, name, op, copied...)
	if err != nil {
		return err
	}
	n.SetNegate(negate)
	return c.add(n)
}
