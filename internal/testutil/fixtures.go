// Package testutil holds condition trees shared by the tests of several
// packages. Every constructor panics on invalid input; fixtures are static.
package testutil

import (
	"time"

	"github.com/roach88/condkit/internal/cond"
)

// TestDate is the fixed timestamp used by fixtures with date attributes, so
// formatted output is deterministic.
var TestDate = time.Date(2014, time.March, 7, 16, 45, 0, 0, time.UTC)

// Bin builds a binary condition on an attribute of type T.
func Bin[T any](name string, op cond.Operator, value any) *cond.BinaryCondition {
	c, err := cond.NewBinaryCondition(cond.TypeOf[T](), name, op, value)
	if err != nil {
		panic(err)
	}
	return c
}

// Poly builds a polyadic condition on an attribute of type T.
func Poly[T any](name string, op cond.Operator, values ...any) *cond.PolyadicCondition {
	c, err := cond.NewPolyadicCondition(cond.TypeOf[T](), name, op, values...)
	if err != nil {
		panic(err)
	}
	return c
}

// Un builds a unary condition on an attribute of type T.
func Un[T any](name string, op cond.Operator) *cond.UnaryCondition {
	c, err := cond.NewUnaryCondition(cond.TypeOf[T](), name, op)
	if err != nil {
		panic(err)
	}
	return c
}

// Step is one link of a chain built by Chain.
type Step struct {
	Type cond.ConjunctionType
	Node cond.Connectable
}

// AND links the next node with a conjunction of type And.
func AND(n cond.Connectable) Step { return Step{Type: cond.And, Node: n} }

// OR links the next node with a conjunction of type Or.
func OR(n cond.Connectable) Step { return Step{Type: cond.Or, Node: n} }

// Chain links first and every step node left to right and returns first.
func Chain(first cond.Connectable, steps ...Step) cond.Connectable {
	tail := first
	for _, s := range steps {
		next, err := cond.Link(tail, s.Type, s.Node)
		if err != nil {
			panic(err)
		}
		tail = next
	}
	return first
}

// Group wraps a chain in an expression.
func Group(c cond.Connectable) *cond.Expression {
	return cond.NewExpression(c)
}

// Not sets the negate flag of n and returns it.
func Not[N cond.Connectable](n N) N {
	n.SetNegate(true)
	return n
}

// SimpleObject: firstName == "Test1"
func SimpleObject() cond.Connectable {
	return Bin[string]("firstName", cond.Equals, "Test1")
}

// SimpleAnd: firstName == "Test1" && lastName == "Test2"
func SimpleAnd() cond.Connectable {
	return Chain(Bin[string]("firstName", cond.Equals, "Test1"),
		AND(Bin[string]("lastName", cond.Equals, "Test2")))
}

// SimpleOr: firstName == "Test1" || firstName == "Test2"
func SimpleOr() cond.Connectable {
	return Chain(Bin[string]("firstName", cond.Equals, "Test1"),
		OR(Bin[string]("firstName", cond.Equals, "Test2")))
}

// GroupExpression: firstName == "Herbert" || firstName == "Hubert" &&
// ( lastName == "Blub" && married in ( "wald", "traut" ) )
func GroupExpression() cond.Connectable {
	return Chain(Bin[string]("firstName", cond.Equals, "Herbert"),
		OR(Bin[string]("firstName", cond.Equals, "Hubert")),
		AND(Group(Chain(Bin[string]("lastName", cond.Equals, "Blub"),
			AND(Poly[string]("married", cond.In, "wald", "traut"))))))
}

// ConditionNegation: !firstName == "Test1"
func ConditionNegation() cond.Connectable {
	return Not(Bin[string]("firstName", cond.Equals, "Test1"))
}

// ExpressionNegation: !( firstName == "Test1" )
func ExpressionNegation() cond.Connectable {
	return Not(Group(Bin[string]("firstName", cond.Equals, "Test1")))
}

// ComplexExpression mixes groups, negation, rune, bool and int attributes.
func ComplexExpression() cond.Connectable {
	return Chain(Bin[string]("firstName", cond.Equals, "Herbert"),
		OR(Bin[string]("firstName", cond.Equals, "Hubert")),
		AND(Group(Chain(Bin[string]("lastName", cond.Equals, "Blub"),
			AND(Poly[string]("married", cond.In, "wald", "traut")),
			OR(Bin[rune]("sex", cond.Equals, 'm'))))),
		OR(Bin[bool]("human", cond.Equals, true)),
		AND(Not(Bin[int]("age", cond.LessThan, 18))))
}

// NestedGroupsWithBetweenAndDate:
// name == "Test" && ( viewID == "Bla" || viewID == "Blub" &&
// !( ownedByAccessAreaID in ( 12, 1, 9 ) && valid == true ) ||
// ( lastModifiedDate >= TestDate && viewCount between 4 and 99 ) ) ||
// ownedByUserID == 42
func NestedGroupsWithBetweenAndDate() cond.Connectable {
	return Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Group(Chain(Bin[string]("viewID", cond.Equals, "Bla"),
			OR(Bin[string]("viewID", cond.Equals, "Blub")),
			AND(Not(Group(Chain(Poly[int64]("ownedByAccessAreaID", cond.In, int64(12), int64(1), int64(9)),
				AND(Bin[bool]("valid", cond.Equals, true)))))),
			OR(Group(Chain(Bin[time.Time]("lastModifiedDate", cond.GreaterThanOrEquals, TestDate),
				AND(Poly[int]("viewCount", cond.Between, 4, 99)))))))),
		OR(Bin[int]("ownedByUserID", cond.Equals, 42)))
}

// ComplexWithUnary adds an IS NULL condition inside a group.
func ComplexWithUnary() cond.Connectable {
	return Chain(Bin[string]("firstName", cond.Equals, "Herbert"),
		OR(Bin[string]("firstName", cond.Equals, "Hubert")),
		AND(Group(Chain(Bin[string]("lastName", cond.Equals, "Blub"),
			AND(Poly[string]("married", cond.In, "wald", "traut")),
			OR(Bin[rune]("sex", cond.Equals, 'm')),
			AND(Un[time.Time]("birthday", cond.IsNull))))),
		OR(Bin[bool]("human", cond.Equals, true)),
		AND(Not(Bin[int]("age", cond.LessThan, 18))))
}

// SimpleLike: name like "lweFilter%"
func SimpleLike() cond.Connectable {
	return Bin[string]("name", cond.Like, "lweFilter%")
}

// SimpleNotLike: name not like "lweFilter%"
func SimpleNotLike() cond.Connectable {
	return Bin[string]("name", cond.NotLike, "lweFilter%")
}

// SubExpressions nests groups several levels deep across three top-level
// groups joined by OR.
func SubExpressions() cond.Connectable {
	partOne := Group(Chain(Bin[int64]("accessAreaId", cond.Equals, int64(1)),
		AND(Group(Group(Bin[int64]("a", cond.Equals, int64(1)))))))
	partTwo := Group(Chain(Bin[int64]("accessAreaId", cond.Equals, int64(2)),
		AND(Group(Chain(
			Group(Chain(Bin[int64]("a", cond.Equals, int64(1)),
				OR(Group(Chain(Bin[int64]("b", cond.Equals, int64(2)),
					OR(Bin[int64]("c", cond.Equals, int64(3)))))))),
			OR(Group(Bin[int64]("d", cond.Equals, int64(4)))),
			OR(Group(Bin[int64]("e", cond.Equals, int64(-1)))))))))
	partThree := Group(Bin[int64]("accessAreaId", cond.Equals, int64(3)))
	return Chain(partOne, OR(partTwo), OR(partThree))
}

// ValidTrees returns fresh instances of every valid fixture.
func ValidTrees() map[string]cond.Connectable {
	return map[string]cond.Connectable{
		"simple":              SimpleObject(),
		"simple_and":          SimpleAnd(),
		"simple_or":           SimpleOr(),
		"like":                SimpleLike(),
		"not_like":            SimpleNotLike(),
		"group":               GroupExpression(),
		"condition_negation":  ConditionNegation(),
		"expression_negation": ExpressionNegation(),
		"complex":             ComplexExpression(),
		"nested_between_date": NestedGroupsWithBetweenAndDate(),
		"complex_with_unary":  ComplexWithUnary(),
		"sub_expressions":     SubExpressions(),
	}
}

// SimpleCycle is a condition whose conjunction points back at itself.
func SimpleCycle() cond.Connectable {
	c := Bin[string]("CycleMe", cond.Equals, "Oh")
	c.SetConjunction(cond.MustConjunction(cond.And, c))
	return Group(c)
}

// ComplexCycle reaches a shared condition twice; the shared condition links
// onwards, and its chain leads back to itself.
func ComplexCycle() cond.Connectable {
	shared := Bin[string]("CycleMe", cond.Equals, "Oh")
	return Group(Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Group(Chain(Bin[string]("viewID", cond.Equals, "Bla"),
			AND(shared),
			OR(Bin[string]("viewID", cond.Equals, "Blub")),
			AND(Not(Group(Chain(Poly[int64]("ownedByAccessAreaID", cond.In, int64(12), int64(1), int64(9)),
				AND(Bin[bool]("valid", cond.Equals, true)))))),
			OR(Group(Chain(Bin[time.Time]("lastModifiedDate", cond.GreaterThanOrEquals, TestDate),
				AND(Poly[int]("viewCount", cond.Between, 4, 99)),
				OR(shared))))))),
		OR(Bin[int]("ownedByUserID", cond.Equals, 42))))
}

// LookingLikeACycle references a shared condition twice, but only as the
// last node of two chains, so traversal terminates.
func LookingLikeACycle() cond.Connectable {
	shared := Bin[string]("CycleMe", cond.Equals, "Oh")
	return Group(Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Group(Chain(Bin[string]("viewID", cond.Equals, "Bla"),
			OR(Bin[string]("viewID", cond.Equals, "Blub")),
			AND(Not(Group(Chain(Poly[int64]("ownedByAccessAreaID", cond.In, int64(12), int64(1), int64(9)),
				AND(Bin[bool]("valid", cond.Equals, true)),
				AND(shared))))),
			OR(Group(Chain(Bin[time.Time]("lastModifiedDate", cond.GreaterThanOrEquals, TestDate),
				AND(Poly[int]("viewCount", cond.Between, 4, 99)),
				OR(shared))))))),
		OR(Bin[int]("ownedByUserID", cond.Equals, 42))))
}

// SelfContainingGroup is an expression nested inside itself.
func SelfContainingGroup() cond.Connectable {
	e := Group(nil)
	e.SetCondition(e)
	return e
}

// EmptyExpression is a group without a condition.
func EmptyExpression() cond.Connectable {
	return cond.NewExpression(nil)
}

// EmptyExpressionWithConjunction is a conditionless group that still links
// to a valid condition.
func EmptyExpressionWithConjunction() cond.Connectable {
	return Chain(Group(nil), AND(Bin[string]("name", cond.Equals, "Test")))
}

// NestedEmptyExpression hides a conditionless group deep inside a valid tree.
func NestedEmptyExpression() cond.Connectable {
	return Group(Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Group(Chain(Bin[string]("viewID", cond.Equals, "Bla"),
			AND(Not(Group(Chain(Poly[int64]("ownedByAccessAreaID", cond.In, int64(12), int64(1), int64(9)),
				AND(Bin[bool]("valid", cond.Equals, true)),
				AND(Group(nil))))))))),
		OR(Bin[int]("ownedByUserID", cond.Equals, 42))))
}

// NoValue has two binary conditions without a value.
func NoValue() cond.Connectable {
	return Group(Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Group(Chain(Bin[string]("viewID", cond.Equals, nil),
			AND(Bin[string]("viewID", cond.Equals, "Blub"))))),
		OR(Bin[int]("ownedByUserID", cond.Equals, nil))))
}

// NoValues has two polyadic conditions without values.
func NoValues() cond.Connectable {
	return Group(Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Not(Group(Chain(Poly[int64]("ownedByAccessAreaID", cond.In),
			AND(Bin[bool]("valid", cond.Equals, true)))))),
		OR(Group(Chain(Bin[time.Time]("lastModifiedDate", cond.GreaterThanOrEquals, TestDate),
			AND(Poly[int]("viewCount", cond.Between)))))))
}

// NoOperator has two conditions without operator, each followed by a
// polyadic condition without values.
func NoOperator() cond.Connectable {
	return Group(Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Group(Chain(Bin[string]("viewID", cond.OperatorNone, "bla"),
			AND(Not(Group(Chain(Poly[int64]("ownedByAccessAreaID", cond.In),
				AND(Bin[bool]("valid", cond.Equals, true)))))),
			OR(Group(Chain(Bin[time.Time]("lastModifiedDate", cond.OperatorNone, TestDate),
				AND(Poly[int]("viewCount", cond.Between))))))))))
}

// NoAttributeName has a condition without name and one with an empty name.
func NoAttributeName() cond.Connectable {
	return Group(Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Group(Chain(Bin[string]("viewID", cond.Equals, "Bla"),
			OR(Bin[string]("", cond.Equals, "Blub")),
			AND(Not(Group(Chain(Poly[int64]("", cond.In, int64(12), int64(1), int64(9)),
				AND(Bin[bool]("valid", cond.Equals, true)))))))))))
}

// WrongValueAmount has a BETWEEN with three values and one with a single
// value.
func WrongValueAmount() cond.Connectable {
	return Group(Chain(Bin[string]("name", cond.Equals, "Test"),
		AND(Group(Chain(Bin[string]("viewID", cond.Equals, "Bla"),
			OR(Poly[int]("viewCount", cond.Between, 4, 99, 77)),
			OR(Bin[time.Time]("lastModifiedDate", cond.GreaterThanOrEquals, TestDate)),
			AND(Poly[int]("viewCount", cond.Between, 4))))),
		OR(Bin[int]("ownedByUserID", cond.Equals, 42))))
}
