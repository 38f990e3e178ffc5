package cond_test

import (
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/testutil"
)

func tokenStrings(t *testing.T, n cond.Connectable) []string {
	t.Helper()
	tokens, err := cond.Tokens(n)
	require.NoError(t, err)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String()
	}
	return out
}

// assertEqualBoth checks that both equality strategies report want.
func assertEqualBoth(t *testing.T, want bool, a, b cond.Connectable) {
	t.Helper()
	eq, err := cond.Equal(a, b)
	require.NoError(t, err)
	assert.Equal(t, want, eq, "Equal")

	eq, err = cond.EqualTokens(a, b)
	require.NoError(t, err)
	assert.Equal(t, want, eq, "EqualTokens")
}

func TestTokens_SimpleAnd(t *testing.T) {
	assert.Equal(t, []string{
		"ATTRIBUTE:firstName",
		"TYPE:string",
		"OPERATOR:EQUALS",
		"VALUE:Test1",
		"CONJUNCTION:AND",
		"ATTRIBUTE:lastName",
		"TYPE:string",
		"OPERATOR:EQUALS",
		"VALUE:Test2",
	}, tokenStrings(t, testutil.SimpleAnd()))
}

func TestTokens_NegatedGroup(t *testing.T) {
	tree := testutil.Not(testutil.Group(testutil.Not(testutil.Poly[int]("id", cond.In))))
	assert.Equal(t, []string{
		"NEGATE",
		"EXPRESSION_START",
		"NEGATE",
		"ATTRIBUTE:id",
		"TYPE:int",
		"OPERATOR:IN",
		"VALUES:[]",
		"EXPRESSION_END",
	}, tokenStrings(t, tree))
}

func TestTokens_DiffNamesTheChange(t *testing.T) {
	a := testutil.GroupExpression()
	b := testutil.Chain(testutil.Bin[string]("firstName", cond.Equals, "Herbert"),
		testutil.OR(testutil.Bin[string]("firstName", cond.Equals, "Hubert")),
		testutil.AND(testutil.Group(testutil.Chain(testutil.Bin[string]("lastName", cond.Equals, "Blub"),
			testutil.AND(testutil.Poly[string]("married", cond.In, "wald", "traut", "fest"))))))

	diff := cmp.Diff(tokenStrings(t, a), tokenStrings(t, b))
	assert.Contains(t, diff, "fest")
	assert.Empty(t, cmp.Diff(tokenStrings(t, a), tokenStrings(t, testutil.GroupExpression())))
}

func TestEqual_CopiesOfValidTrees(t *testing.T) {
	for name, tree := range testutil.ValidTrees() {
		t.Run(name, func(t *testing.T) {
			cp, err := cond.Copy(tree)
			require.NoError(t, err)
			assert.NotSame(t, tree, cp)
			assertEqualBoth(t, true, tree, cp)
			assertEqualBoth(t, true, cp, tree)
		})
	}
}

func TestEqual_DistinctFixtures(t *testing.T) {
	trees := testutil.ValidTrees()
	rebuilt := testutil.ValidTrees()
	names := slices.Sorted(maps.Keys(trees))

	for _, a := range names {
		for _, b := range names {
			assertEqualBoth(t, a == b, trees[a], rebuilt[b])
		}
	}
}

func TestEqual_Nil(t *testing.T) {
	var typedNil *cond.Expression
	assertEqualBoth(t, true, nil, nil)
	assertEqualBoth(t, true, nil, typedNil)
	assertEqualBoth(t, false, testutil.SimpleObject(), nil)
	assertEqualBoth(t, false, nil, testutil.SimpleObject())
}

func TestEqual_Identity(t *testing.T) {
	tree := testutil.ComplexExpression()
	assertEqualBoth(t, true, tree, tree)
}

func TestEqual_Differences(t *testing.T) {
	base := func() cond.Connectable {
		return testutil.Chain(testutil.Bin[string]("name", cond.Equals, "Test"),
			testutil.AND(testutil.Poly[int64]("id", cond.In, int64(1), int64(2))))
	}

	tests := []struct {
		name  string
		other cond.Connectable
	}{
		{"negate", testutil.Chain(testutil.Not(testutil.Bin[string]("name", cond.Equals, "Test")),
			testutil.AND(testutil.Poly[int64]("id", cond.In, int64(1), int64(2))))},
		{"value", testutil.Chain(testutil.Bin[string]("name", cond.Equals, "Other"),
			testutil.AND(testutil.Poly[int64]("id", cond.In, int64(1), int64(2))))},
		{"operator", testutil.Chain(testutil.Bin[string]("name", cond.NotEquals, "Test"),
			testutil.AND(testutil.Poly[int64]("id", cond.In, int64(1), int64(2))))},
		{"attribute name", testutil.Chain(testutil.Bin[string]("title", cond.Equals, "Test"),
			testutil.AND(testutil.Poly[int64]("id", cond.In, int64(1), int64(2))))},
		{"conjunction type", testutil.Chain(testutil.Bin[string]("name", cond.Equals, "Test"),
			testutil.OR(testutil.Poly[int64]("id", cond.In, int64(1), int64(2))))},
		{"list order", testutil.Chain(testutil.Bin[string]("name", cond.Equals, "Test"),
			testutil.AND(testutil.Poly[int64]("id", cond.In, int64(2), int64(1))))},
		{"list length", testutil.Chain(testutil.Bin[string]("name", cond.Equals, "Test"),
			testutil.AND(testutil.Poly[int64]("id", cond.In, int64(1))))},
		{"declared type", testutil.Chain(testutil.Bin[string]("name", cond.Equals, "Test"),
			testutil.AND(testutil.Poly[any]("id", cond.In, int64(1), int64(2))))},
		{"shorter chain", testutil.Bin[string]("name", cond.Equals, "Test")},
		{"condition kind", testutil.Chain(testutil.Bin[string]("name", cond.Equals, "Test"),
			testutil.AND(testutil.Un[int64]("id", cond.IsNull)))},
		{"grouped", testutil.Group(base())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqualBoth(t, false, base(), tt.other)
			assertEqualBoth(t, false, tt.other, base())
		})
	}
}

func TestEqual_ValueSemantics(t *testing.T) {
	shifted := testutil.TestDate.In(time.FixedZone("CET", 3600))

	assertEqualBoth(t, true,
		testutil.Bin[time.Time]("at", cond.Equals, testutil.TestDate),
		testutil.Bin[time.Time]("at", cond.Equals, shifted))

	assertEqualBoth(t, true,
		testutil.Poly[int]("id", cond.In),
		mustPoly(t, []any{}))

	assertEqualBoth(t, false,
		testutil.Bin[string]("name", cond.Equals, nil),
		testutil.Bin[string]("name", cond.Equals, ""))

	assertEqualBoth(t, false,
		testutil.Bin[any]("n", cond.Equals, 1),
		testutil.Bin[any]("n", cond.Equals, int64(1)))
}

func mustPoly(t *testing.T, values []any) *cond.PolyadicCondition {
	t.Helper()
	c, err := cond.NewPolyadicCondition(cond.TypeOf[int](), "id", cond.In)
	require.NoError(t, err)
	require.NoError(t, c.SetValues(values...))
	return c
}
