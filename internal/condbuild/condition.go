package condbuild

import (
	"reflect"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
)

// ConditionBuilder completes a condition on one attribute. Values must be nil
// or instances of the attribute type.
type ConditionBuilder struct {
	root   *root
	name   string
	typ    reflect.Type
	conj   cond.ConjunctionType
	negate bool
}

func (b *ConditionBuilder) IsNull() *ExpressionBuilder {
	return b.unary(cond.IsNull)
}

func (b *ConditionBuilder) IsNotNull() *ExpressionBuilder {
	return b.unary(cond.IsNotNull)
}

func (b *ConditionBuilder) Eq(value any) *ExpressionBuilder {
	return b.binary(cond.Equals, value)
}

func (b *ConditionBuilder) Ne(value any) *ExpressionBuilder {
	return b.binary(cond.NotEquals, value)
}

func (b *ConditionBuilder) Gt(value any) *ExpressionBuilder {
	return b.binary(cond.GreaterThan, value)
}

func (b *ConditionBuilder) Ge(value any) *ExpressionBuilder {
	return b.binary(cond.GreaterThanOrEquals, value)
}

func (b *ConditionBuilder) Lt(value any) *ExpressionBuilder {
	return b.binary(cond.LessThan, value)
}

func (b *ConditionBuilder) Le(value any) *ExpressionBuilder {
	return b.binary(cond.LessThanOrEquals, value)
}

func (b *ConditionBuilder) Like(value any) *ExpressionBuilder {
	return b.binary(cond.Like, value)
}

func (b *ConditionBuilder) NotLike(value any) *ExpressionBuilder {
	return b.binary(cond.NotLike, value)
}

func (b *ConditionBuilder) In(values ...any) *ExpressionBuilder {
	return b.polyadic(cond.In, values...)
}

func (b *ConditionBuilder) NotIn(values ...any) *ExpressionBuilder {
	return b.polyadic(cond.NotIn, values...)
}

// Between adds an inclusive range condition.
func (b *ConditionBuilder) Between(from, to any) *ExpressionBuilder {
	return b.polyadic(cond.Between, from, to)
}

// Op completes the condition with an operator chosen at runtime, picking the
// condition shape from the operator's arity. It is used when trees are
// decoded from documents.
func (b *ConditionBuilder) Op(op cond.Operator, values ...any) *ExpressionBuilder {
	switch op.Arity() {
	case cond.Unary:
		if len(values) > 0 {
			b.root.fail(errors.Wrapf(errors.ErrArityMismatch, "%s takes no value, got %d", op, len(values)))
			return &ExpressionBuilder{root: b.root}
		}
		return b.unary(op)
	case cond.Binary:
		switch len(values) {
		case 0:
			return b.binary(op, nil)
		case 1:
			return b.binary(op, values[0])
		default:
			b.root.fail(errors.Wrapf(errors.ErrArityMismatch, "%s takes one value, got %d", op, len(values)))
			return &ExpressionBuilder{root: b.root}
		}
	default:
		return b.polyadic(op, values...)
	}
}

func (b *ConditionBuilder) check() bool {
	if b.root.err != nil {
		return false
	}
	if b.name == "" {
		b.root.fail(errors.Wrap(errors.ErrNilArgument, "no attribute name given"))
		return false
	}
	return true
}

func (b *ConditionBuilder) add(c cond.Condition, err error) *ExpressionBuilder {
	if err != nil {
		b.root.fail(err)
	} else {
		c.SetNegate(b.negate)
		b.root.handle(b.conj, c)
	}
	return &ExpressionBuilder{root: b.root}
}

func (b *ConditionBuilder) unary(op cond.Operator) *ExpressionBuilder {
	if !b.check() {
		return &ExpressionBuilder{root: b.root}
	}
	c, err := cond.NewUnaryCondition(b.typ, b.name, op)
	return b.add(c, err)
}

func (b *ConditionBuilder) binary(op cond.Operator, value any) *ExpressionBuilder {
	if !b.check() {
		return &ExpressionBuilder{root: b.root}
	}
	c, err := cond.NewBinaryCondition(b.typ, b.name, op, value)
	return b.add(c, err)
}

func (b *ConditionBuilder) polyadic(op cond.Operator, values ...any) *ExpressionBuilder {
	if !b.check() {
		return &ExpressionBuilder{root: b.root}
	}
	c, err := cond.NewPolyadicCondition(b.typ, b.name, op, values...)
	return b.add(c, err)
}
