package cond

import (
	"fmt"
	"strings"

	"github.com/roach88/condkit/internal/errors"
)

// Infinite marks an arity without an upper bound.
const Infinite = -1

// Arity is the argument-count class of an operator.
type Arity struct {
	Name string
	Min  int
	Max  int // Infinite for no upper bound
}

// Arity classes.
var (
	Unary    = Arity{Name: "UNARY", Min: 0, Max: 0}
	Binary   = Arity{Name: "BINARY", Min: 1, Max: 1}
	Ternary  = Arity{Name: "TERNARY", Min: 2, Max: 2}
	Polyadic = Arity{Name: "POLYADIC", Min: 1, Max: Infinite}
)

// ValidCount reports whether n arguments satisfy the arity.
// Zero arguments are valid only for arities with a minimum of zero.
func (a Arity) ValidCount(n int) bool {
	if n < 0 {
		return false
	}
	if n == 0 && a.Min == 0 {
		return true
	}
	return n >= a.Min && (a.Max == Infinite || n <= a.Max)
}

// Valid reports whether the value list satisfies the arity. A nil list counts
// as zero arguments.
func (a Arity) Valid(values []any) bool {
	return a.ValidCount(len(values))
}

// MaxString renders the upper bound, INFINITE when unbounded.
func (a Arity) MaxString() string {
	if a.Max == Infinite {
		return "INFINITE"
	}
	return fmt.Sprintf("%d", a.Max)
}

func (a Arity) String() string {
	return a.Name
}

// Operator is the closed set of comparison operators.
// The zero value OperatorNone means no operator has been assigned.
type Operator int

const (
	OperatorNone Operator = iota
	GreaterThan
	GreaterThanOrEquals
	LessThan
	LessThanOrEquals
	Equals
	NotEquals
	IsNull
	IsNotNull
	Like
	NotLike
	In
	NotIn
	Between
)

type operatorInfo struct {
	name   string
	short  string
	symbol string
	arity  Arity
}

var operatorTable = map[Operator]operatorInfo{
	GreaterThan:         {"GREATER_THAN", "gt", ">", Binary},
	GreaterThanOrEquals: {"GREATER_THAN_OR_EQUALS", "ge", ">=", Binary},
	LessThan:            {"LESS_THAN", "lt", "<", Binary},
	LessThanOrEquals:    {"LESS_THAN_OR_EQUALS", "le", "<=", Binary},
	Equals:              {"EQUALS", "eq", "==", Binary},
	NotEquals:           {"NOT_EQUALS", "ne", "!=", Binary},
	IsNull:              {"IS_NULL", "isNull", "isNull", Unary},
	IsNotNull:           {"IS_NOT_NULL", "isNotNull", "isNotNull", Unary},
	Like:                {"LIKE", "like", "like", Binary},
	NotLike:             {"NOT_LIKE", "notLike", "not like", Binary},
	In:                  {"IN", "in", "in", Polyadic},
	NotIn:               {"NOT_IN", "notIn", "not in", Polyadic},
	Between:             {"BETWEEN", "between", "between", Ternary},
}

// Operators returns every operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, 0, len(operatorTable))
	for op := GreaterThan; op <= Between; op++ {
		ops = append(ops, op)
	}
	return ops
}

// Valid reports whether op is a member of the operator set.
func (op Operator) Valid() bool {
	_, ok := operatorTable[op]
	return ok
}

// Arity returns the argument-count class of the operator. OperatorNone and
// unknown values report Binary, the default arity.
func (op Operator) Arity() Arity {
	if info, ok := operatorTable[op]; ok {
		return info.arity
	}
	return Binary
}

// Symbol returns the debug rendering used by the formatter.
func (op Operator) Symbol() string {
	if info, ok := operatorTable[op]; ok {
		return info.symbol
	}
	return "<NULL>"
}

func (op Operator) String() string {
	if info, ok := operatorTable[op]; ok {
		return info.name
	}
	if op == OperatorNone {
		return "null"
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// ShortName returns the builder name of the operator (eq, notIn, ...), or
// "" for values outside the operator set.
func (op Operator) ShortName() string {
	return operatorTable[op].short
}

// ParseOperator resolves an operator from its constant name (any case), its
// formatter symbol or its short builder name (eq, notIn, ...).
func ParseOperator(s string) (Operator, error) {
	trimmed := strings.TrimSpace(s)
	for op, info := range operatorTable {
		if strings.EqualFold(trimmed, info.name) ||
			strings.EqualFold(trimmed, info.short) ||
			trimmed == info.symbol {
			return op, nil
		}
	}
	return OperatorNone, errors.Newf("unknown operator %q", s)
}
