package cond

import (
	"reflect"
	"slices"

	"github.com/roach88/condkit/internal/errors"
)

// Connectable is any node of a condition tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern keeps type switches over the four node shapes
// exhaustive:
//   - *Expression: a group wrapping a nested Connectable
//   - *UnaryCondition: attribute + operator, no value (IS NULL)
//   - *BinaryCondition: attribute + operator + one value
//   - *PolyadicCondition: attribute + operator + value list (IN, BETWEEN)
//
// Every node may carry a Conjunction linking it to the next node of its chain.
type Connectable interface {
	Conjunction() *Conjunction
	SetConjunction(c *Conjunction)
	Negated() bool
	SetNegate(negate bool)
	connectable() // Marker method - seals interface to this package
}

// Condition is a leaf predicate over one named, typed attribute.
type Condition interface {
	Connectable
	AttributeName() string
	Type() reflect.Type
	Operator() Operator
	SetOperator(op Operator) error
}

// ConjunctionType is the boolean connector between two nodes.
type ConjunctionType int

const (
	And ConjunctionType = iota + 1
	Or
)

func (t ConjunctionType) Valid() bool {
	return t == And || t == Or
}

func (t ConjunctionType) String() string {
	switch t {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return "null"
	}
}

// Conjunction links a node to the next node of its chain. It is immutable.
type Conjunction struct {
	typ  ConjunctionType
	next Connectable
}

// NewConjunction creates a link of the given type to next.
func NewConjunction(t ConjunctionType, next Connectable) (*Conjunction, error) {
	if !t.Valid() {
		return nil, errors.Wrapf(errors.ErrNilArgument, "no conjunction type given")
	}
	if isNil(next) {
		return nil, errors.Wrapf(errors.ErrNilArgument, "no next connectable given")
	}
	return &Conjunction{typ: t, next: next}, nil
}

// MustConjunction is like NewConjunction but panics on invalid input.
// It is intended for fixtures with statically known arguments.
func MustConjunction(t ConjunctionType, next Connectable) *Conjunction {
	c, err := NewConjunction(t, next)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Conjunction) Type() ConjunctionType { return c.typ }

func (c *Conjunction) Next() Connectable { return c.next }

// Link sets from's conjunction to (t, to) and returns to, so chains can be
// written as successive Link calls.
func Link(from Connectable, t ConjunctionType, to Connectable) (Connectable, error) {
	if isNil(from) {
		return nil, errors.Wrapf(errors.ErrNilArgument, "no connectable to link from given")
	}
	c, err := NewConjunction(t, to)
	if err != nil {
		return nil, err
	}
	from.SetConjunction(c)
	return to, nil
}

// Expression groups a nested chain, the equivalent of parentheses.
// An Expression without a nested condition is legal to build but fails
// validation as conditionless.
type Expression struct {
	negate    bool
	condition Connectable
	conj      *Conjunction
}

// NewExpression wraps condition, which may be nil.
func NewExpression(condition Connectable) *Expression {
	return &Expression{condition: condition}
}

func (*Expression) connectable() {}

func (e *Expression) Condition() Connectable { return e.condition }

func (e *Expression) SetCondition(c Connectable) { e.condition = c }

func (e *Expression) Negated() bool { return e.negate }

func (e *Expression) SetNegate(negate bool) { e.negate = negate }

func (e *Expression) Conjunction() *Conjunction { return e.conj }

func (e *Expression) SetConjunction(c *Conjunction) { e.conj = c }

// attribute holds the state shared by the three condition shapes.
type attribute struct {
	name   string
	typ    reflect.Type
	op     Operator
	negate bool
	conj   *Conjunction
}

func newAttribute(typ reflect.Type, name string) (attribute, error) {
	if typ == nil {
		return attribute{}, errors.Wrapf(errors.ErrNilArgument, "no attribute type given")
	}
	return attribute{name: name, typ: typ}, nil
}

func (a *attribute) AttributeName() string { return a.name }

func (a *attribute) Type() reflect.Type { return a.typ }

func (a *attribute) Operator() Operator { return a.op }

func (a *attribute) Negated() bool { return a.negate }

func (a *attribute) SetNegate(negate bool) { a.negate = negate }

func (a *attribute) Conjunction() *Conjunction { return a.conj }

func (a *attribute) SetConjunction(c *Conjunction) { a.conj = c }

// setOperator assigns op if its arity is one of the accepted classes.
func (a *attribute) setOperator(op Operator, accepted ...Arity) error {
	if op != OperatorNone {
		if !op.Valid() {
			return errors.Wrapf(errors.ErrArityMismatch, "%s is not a known operator", op)
		}
		if !slices.Contains(accepted, op.Arity()) {
			return errors.Wrapf(errors.ErrArityMismatch, "%s is not of expected arity %v", op, accepted)
		}
	}
	a.op = op
	return nil
}

func (a *attribute) checkValue(v any) error {
	if !IsInstanceOf(a.typ, v) {
		return errors.Wrapf(errors.ErrTypeMismatch,
			"value %v (%T) of attribute %q is not an instance of %s", v, v, a.name, a.typ)
	}
	return nil
}

// UnaryCondition is a condition without a value, e.g. "name IS NULL".
type UnaryCondition struct {
	attribute
}

// NewUnaryCondition creates a condition accepting only unary operators.
func NewUnaryCondition(typ reflect.Type, name string, op Operator) (*UnaryCondition, error) {
	a, err := newAttribute(typ, name)
	if err != nil {
		return nil, err
	}
	c := &UnaryCondition{attribute: a}
	if err := c.SetOperator(op); err != nil {
		return nil, err
	}
	return c, nil
}

func (*UnaryCondition) connectable() {}

func (c *UnaryCondition) SetOperator(op Operator) error {
	return c.setOperator(op, Unary)
}

// BinaryCondition compares an attribute against a single value.
type BinaryCondition struct {
	attribute
	value any
}

// NewBinaryCondition creates a condition accepting only binary operators.
// value must be nil or an instance of typ.
func NewBinaryCondition(typ reflect.Type, name string, op Operator, value any) (*BinaryCondition, error) {
	a, err := newAttribute(typ, name)
	if err != nil {
		return nil, err
	}
	c := &BinaryCondition{attribute: a}
	if err := c.SetOperator(op); err != nil {
		return nil, err
	}
	if err := c.SetValue(value); err != nil {
		return nil, err
	}
	return c, nil
}

func (*BinaryCondition) connectable() {}

func (c *BinaryCondition) SetOperator(op Operator) error {
	return c.setOperator(op, Binary)
}

func (c *BinaryCondition) Value() any { return c.value }

// SetValue replaces the value; nil is always accepted.
func (c *BinaryCondition) SetValue(v any) error {
	if err := c.checkValue(v); err != nil {
		return err
	}
	c.value = v
	return nil
}

// PolyadicCondition compares an attribute against a list of values. It covers
// the variable arity IN/NOT_IN and the two-value BETWEEN.
type PolyadicCondition struct {
	attribute
	values []any
}

// NewPolyadicCondition creates a condition accepting polyadic and ternary
// operators. Every value must be nil or an instance of typ.
func NewPolyadicCondition(typ reflect.Type, name string, op Operator, values ...any) (*PolyadicCondition, error) {
	a, err := newAttribute(typ, name)
	if err != nil {
		return nil, err
	}
	c := &PolyadicCondition{attribute: a}
	if err := c.SetOperator(op); err != nil {
		return nil, err
	}
	if err := c.SetValues(values...); err != nil {
		return nil, err
	}
	return c, nil
}

func (*PolyadicCondition) connectable() {}

func (c *PolyadicCondition) SetOperator(op Operator) error {
	return c.setOperator(op, Polyadic, Ternary)
}

// Values returns a copy of the value list.
func (c *PolyadicCondition) Values() []any { return slices.Clone(c.values) }

// Len returns the number of values.
func (c *PolyadicCondition) Len() int { return len(c.values) }

// SetValues replaces the value list. The list is copied; on a type mismatch
// the previous list is kept.
func (c *PolyadicCondition) SetValues(values ...any) error {
	for _, v := range values {
		if err := c.checkValue(v); err != nil {
			return err
		}
	}
	c.values = slices.Clone(values)
	return nil
}

// AddValue appends a value to the list.
func (c *PolyadicCondition) AddValue(v any) error {
	if err := c.checkValue(v); err != nil {
		return err
	}
	c.values = append(c.values, v)
	return nil
}

// AttributeData pairs an attribute name with its declared type so the pair
// can be declared once and reused by several builders.
type AttributeData struct {
	Name string
	Type reflect.Type
}

// Attr declares an attribute of type T.
func Attr[T any](name string) AttributeData {
	return AttributeData{Name: name, Type: TypeOf[T]()}
}

// IsNil reports whether c is nil or a typed nil pointer.
func IsNil(c Connectable) bool {
	return isNil(c)
}

func isNil(c Connectable) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
