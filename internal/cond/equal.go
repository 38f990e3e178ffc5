package cond

import (
	"reflect"
	"time"
)

// Equal compares two trees structurally.
//
// Two nodes are equal if they have the same shape, the same negate flag, the
// same attribute name, operator and declared type, equal values (lists are
// order-sensitive, a nil list equals an empty one) and equal conjunctions all
// the way down their chains. Nil equals nil only.
//
// Both trees are checked for cycles before they are compared.
func Equal(a, b Connectable) (bool, error) {
	if eq, decided := preCompare(a, b); decided {
		return eq, nil
	}
	if err := CheckCycle(a); err != nil {
		return false, err
	}
	if err := CheckCycle(b); err != nil {
		return false, err
	}
	return equalChain(a, b), nil
}

// preCompare resolves the identity, nil and shape short-cuts shared by both
// equality strategies.
func preCompare(a, b Connectable) (equal bool, decided bool) {
	aNil, bNil := isNil(a), isNil(b)
	switch {
	case aNil && bNil:
		return true, true
	case aNil || bNil:
		return false, true
	case a == b:
		return true, true
	case reflect.TypeOf(a) != reflect.TypeOf(b):
		return false, true
	}
	return false, false
}

func equalChain(a, b Connectable) bool {
	for {
		if a == b {
			return true
		}
		if isNil(a) || isNil(b) || !equalNode(a, b) {
			return false
		}
		ca, cb := a.Conjunction(), b.Conjunction()
		if ca == nil || cb == nil {
			return ca == nil && cb == nil
		}
		if ca.Type() != cb.Type() {
			return false
		}
		a, b = ca.Next(), cb.Next()
	}
}

func equalNode(a, b Connectable) bool {
	if a.Negated() != b.Negated() {
		return false
	}
	switch x := a.(type) {
	case *Expression:
		y, ok := b.(*Expression)
		if !ok {
			return false
		}
		if isNil(x.condition) || isNil(y.condition) {
			return isNil(x.condition) && isNil(y.condition)
		}
		return equalChain(x.condition, y.condition)
	case *UnaryCondition:
		y, ok := b.(*UnaryCondition)
		return ok && equalAttribute(&x.attribute, &y.attribute)
	case *BinaryCondition:
		y, ok := b.(*BinaryCondition)
		return ok && equalAttribute(&x.attribute, &y.attribute) && valuesEqual(x.value, y.value)
	case *PolyadicCondition:
		y, ok := b.(*PolyadicCondition)
		return ok && equalAttribute(&x.attribute, &y.attribute) && listsEqual(x.values, y.values)
	default:
		return false
	}
}

func equalAttribute(a, b *attribute) bool {
	return a.name == b.name && a.op == b.op && a.typ == b.typ
}

// valuesEqual compares two condition values. time.Time values compare by
// instant; everything else by reflect.DeepEqual.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

func listsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
