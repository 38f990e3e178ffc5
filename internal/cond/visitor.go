package cond

import (
	"reflect"
	"slices"

	"github.com/roach88/condkit/internal/errors"
)

// Visitor receives the canonical pre-order traversal of a tree.
//
// For an Expression, StartExpression is called, then the nested chain is
// visited (if present), then EndExpression. For a condition, the matching
// Visit*Condition method is called. In both cases, if the node has a
// conjunction, Conjunct is called with its type and the linked node is
// visited next.
//
// Returning a non-nil error stops the traversal; Walk returns that error.
type Visitor interface {
	StartExpression(negate bool) error
	EndExpression() error
	Conjunct(t ConjunctionType) error
	VisitUnaryCondition(negate bool, name string, typ reflect.Type, op Operator) error
	VisitBinaryCondition(negate bool, name string, typ reflect.Type, op Operator, value any) error
	VisitPolyadicCondition(negate bool, name string, typ reflect.Type, op Operator, values []any) error
}

// Walk traverses node in canonical order, calling v for each event.
//
// Walk does not check for cycles: callers must run CheckCycle first (every
// algorithm in this package does). A nil node produces no events.
func Walk(v Visitor, node Connectable) error {
	for n := node; !isNil(n); {
		if err := visitNode(v, n); err != nil {
			return err
		}
		conj := n.Conjunction()
		if conj == nil {
			return nil
		}
		if err := v.Conjunct(conj.Type()); err != nil {
			return err
		}
		n = conj.Next()
	}
	return nil
}

func visitNode(v Visitor, n Connectable) error {
	switch node := n.(type) {
	case *Expression:
		if err := v.StartExpression(node.negate); err != nil {
			return err
		}
		if node.condition != nil {
			if err := Walk(v, node.condition); err != nil {
				return err
			}
		}
		return v.EndExpression()
	case *UnaryCondition:
		return v.VisitUnaryCondition(node.negate, node.name, node.typ, node.op)
	case *BinaryCondition:
		return v.VisitBinaryCondition(node.negate, node.name, node.typ, node.op, node.value)
	case *PolyadicCondition:
		return v.VisitPolyadicCondition(node.negate, node.name, node.typ, node.op, slices.Clone(node.values))
	default:
		return errors.AssertionFailedf("unknown connectable %T", n)
	}
}
