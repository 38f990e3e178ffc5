package cond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArity_ValidCount(t *testing.T) {
	tests := []struct {
		arity Arity
		n     int
		want  bool
	}{
		{Unary, 0, true},
		{Unary, 1, false},
		{Binary, 0, false},
		{Binary, 1, true},
		{Binary, 2, false},
		{Ternary, 1, false},
		{Ternary, 2, true},
		{Ternary, 3, false},
		{Polyadic, 0, false},
		{Polyadic, 1, true},
		{Polyadic, 1000, true},
		{Polyadic, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.arity.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.arity.ValidCount(tt.n), "count %d", tt.n)
		})
	}
}

func TestArity_ValidNilList(t *testing.T) {
	assert.True(t, Unary.Valid(nil))
	assert.False(t, Binary.Valid(nil))
	assert.False(t, Polyadic.Valid([]any{}))
	assert.True(t, Ternary.Valid([]any{1, 2}))
}

func TestArity_MaxString(t *testing.T) {
	assert.Equal(t, "INFINITE", Polyadic.MaxString())
	assert.Equal(t, "2", Ternary.MaxString())
	assert.Equal(t, "TERNARY", Ternary.String())
}

func TestOperator_Table(t *testing.T) {
	tests := []struct {
		op     Operator
		symbol string
		arity  Arity
	}{
		{GreaterThan, ">", Binary},
		{GreaterThanOrEquals, ">=", Binary},
		{LessThan, "<", Binary},
		{LessThanOrEquals, "<=", Binary},
		{Equals, "==", Binary},
		{NotEquals, "!=", Binary},
		{IsNull, "isNull", Unary},
		{IsNotNull, "isNotNull", Unary},
		{Like, "like", Binary},
		{NotLike, "not like", Binary},
		{In, "in", Polyadic},
		{NotIn, "not in", Polyadic},
		{Between, "between", Ternary},
	}

	require.Len(t, Operators(), len(tests))
	for i, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.op, Operators()[i])
			assert.True(t, tt.op.Valid())
			assert.Equal(t, tt.symbol, tt.op.Symbol())
			assert.Equal(t, tt.arity, tt.op.Arity())
		})
	}
}

func TestOperator_None(t *testing.T) {
	assert.False(t, OperatorNone.Valid())
	assert.Equal(t, "null", OperatorNone.String())
	assert.Equal(t, "<NULL>", OperatorNone.Symbol())
	assert.Equal(t, Binary, OperatorNone.Arity())
	assert.Equal(t, "Operator(99)", Operator(99).String())
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in   string
		want Operator
	}{
		{"EQUALS", Equals},
		{"equals", Equals},
		{"eq", Equals},
		{"==", Equals},
		{"not_in", NotIn},
		{"notIn", NotIn},
		{"not in", NotIn},
		{" between ", Between},
		{"isNull", IsNull},
		{"IS_NOT_NULL", IsNotNull},
		{">=", GreaterThanOrEquals},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			op, err := ParseOperator(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
		})
	}
}

func TestOperator_ShortNameParses(t *testing.T) {
	for _, op := range Operators() {
		got, err := ParseOperator(op.ShortName())
		require.NoError(t, err, op.String())
		assert.Equal(t, op, got)
	}
	assert.Empty(t, OperatorNone.ShortName())
}

func TestParseOperator_Unknown(t *testing.T) {
	op, err := ParseOperator("approximately")
	require.Error(t, err)
	assert.Equal(t, OperatorNone, op)
	assert.Contains(t, err.Error(), "approximately")
}

func TestConjunctionType(t *testing.T) {
	assert.Equal(t, "AND", And.String())
	assert.Equal(t, "OR", Or.String())
	assert.False(t, ConjunctionType(0).Valid())
}
