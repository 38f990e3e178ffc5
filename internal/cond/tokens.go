package cond

import (
	"fmt"
	"reflect"
)

// TokenKind identifies an entry of a linearized tree.
type TokenKind int

const (
	TokenNegate TokenKind = iota
	TokenExpressionStart
	TokenExpressionEnd
	TokenConjunction
	TokenAttribute
	TokenType
	TokenOperator
	TokenValue
	TokenValues
)

var tokenKindNames = [...]string{
	TokenNegate:          "NEGATE",
	TokenExpressionStart: "EXPRESSION_START",
	TokenExpressionEnd:   "EXPRESSION_END",
	TokenConjunction:     "CONJUNCTION",
	TokenAttribute:       "ATTRIBUTE",
	TokenType:            "TYPE",
	TokenOperator:        "OPERATOR",
	TokenValue:           "VALUE",
	TokenValues:          "VALUES",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one entry of a linearized tree. Value depends on Kind: a
// ConjunctionType, a string name, a reflect.Type, an Operator, a single value
// or a []any value list; markers carry no value.
type Token struct {
	Kind  TokenKind
	Value any
}

// Equal compares two tokens with the same value semantics as the structural
// equality.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TokenValues:
		a, _ := t.Value.([]any)
		b, _ := o.Value.([]any)
		return listsEqual(a, b)
	case TokenType:
		return t.Value == o.Value
	default:
		return valuesEqual(t.Value, o.Value)
	}
}

func (t Token) String() string {
	switch t.Kind {
	case TokenNegate, TokenExpressionStart, TokenExpressionEnd:
		return t.Kind.String()
	case TokenType:
		if typ, ok := t.Value.(reflect.Type); ok {
			return t.Kind.String() + ":" + typ.String()
		}
	}
	return fmt.Sprintf("%s:%v", t.Kind, t.Value)
}

// Tokens linearizes node in canonical traversal order:
//
//	[NEGATE] EXPRESSION_START ... EXPRESSION_END   for an expression
//	[NEGATE] ATTRIBUTE TYPE OPERATOR [VALUE|VALUES] for a condition
//	CONJUNCTION                                     before each linked node
//
// The tree is checked for cycles first.
func Tokens(node Connectable) ([]Token, error) {
	if err := CheckCycle(node); err != nil {
		return nil, err
	}
	rec := &tokenRecorder{}
	if err := Walk(rec, node); err != nil {
		return nil, err
	}
	return rec.tokens, nil
}

// EqualTokens compares two trees by their linearized token streams. It
// agrees with Equal on every acyclic tree.
func EqualTokens(a, b Connectable) (bool, error) {
	if eq, decided := preCompare(a, b); decided {
		return eq, nil
	}
	ta, err := Tokens(a)
	if err != nil {
		return false, err
	}
	tb, err := Tokens(b)
	if err != nil {
		return false, err
	}
	if len(ta) != len(tb) {
		return false, nil
	}
	for i := range ta {
		if !ta[i].Equal(tb[i]) {
			return false, nil
		}
	}
	return true, nil
}

type tokenRecorder struct {
	tokens []Token
}

func (r *tokenRecorder) push(kind TokenKind, value any) {
	r.tokens = append(r.tokens, Token{Kind: kind, Value: value})
}

func (r *tokenRecorder) StartExpression(negate bool) error {
	if negate {
		r.push(TokenNegate, nil)
	}
	r.push(TokenExpressionStart, nil)
	return nil
}

func (r *tokenRecorder) EndExpression() error {
	r.push(TokenExpressionEnd, nil)
	return nil
}

func (r *tokenRecorder) Conjunct(t ConjunctionType) error {
	r.push(TokenConjunction, t)
	return nil
}

func (r *tokenRecorder) condition(negate bool, name string, typ reflect.Type, op Operator) {
	if negate {
		r.push(TokenNegate, nil)
	}
	r.push(TokenAttribute, name)
	r.push(TokenType, typ)
	r.push(TokenOperator, op)
}

func (r *tokenRecorder) VisitUnaryCondition(negate bool, name string, typ reflect.Type, op Operator) error {
	r.condition(negate, name, typ, op)
	return nil
}

func (r *tokenRecorder) VisitBinaryCondition(negate bool, name string, typ reflect.Type, op Operator, value any) error {
	r.condition(negate, name, typ, op)
	r.push(TokenValue, value)
	return nil
}

func (r *tokenRecorder) VisitPolyadicCondition(negate bool, name string, typ reflect.Type, op Operator, values []any) error {
	r.condition(negate, name, typ, op)
	r.push(TokenValues, values)
	return nil
}
