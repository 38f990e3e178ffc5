package condsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
	"github.com/roach88/condkit/internal/testutil"
)

func TestParseParameterRef(t *testing.T) {
	tests := []struct {
		in   string
		want ParameterRef
		str  string
	}{
		{"", ParameterRef{Name: DefaultParameterName}, "expression?"},
		{"filter", ParameterRef{Name: "filter"}, "filter?"},
		{"filter?", ParameterRef{Name: "filter"}, "filter?"},
		{"filter!", ParameterRef{Name: "filter", Mandatory: true}, "filter!"},
		{" filter! ", ParameterRef{Name: "filter", Mandatory: true}, "filter!"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseParameterRef(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
		})
	}
}

func TestExtension_MissingMandatory(t *testing.T) {
	ext := &Extension{PrecedingOperator: "and"}
	stmt := NewStatement(Question)

	ok, err := ext.Apply(map[string]any{}, ParseParameterRef("filter!"), stmt)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, errors.ErrMissingParameter))
	assert.Contains(t, err.Error(), "missing mandatory parameter [filter]")
	assert.Empty(t, stmt.SQL())

	ok, err = ext.Apply(map[string]any{"filter": nil}, ParseParameterRef("filter!"), stmt)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, errors.ErrMissingParameter))
}

func TestExtension_MissingOptional(t *testing.T) {
	ext := &Extension{PrecedingOperator: "and"}
	stmt := NewStatement(Question)
	stmt.WriteSQL("deleted = 0")

	ok, err := ext.Apply(map[string]any{"other": 1}, ParseParameterRef("filter"), stmt)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "deleted = 0", stmt.SQL())
}

func TestExtension_EmptyTreeIsAbsent(t *testing.T) {
	tests := []struct {
		name  string
		param any
	}{
		{"mapped expression pointer without tree", &MappedExpression{Mapper: UpperSnakeMapper}},
		{"mapped expression value without tree", MappedExpression{}},
		{"typed nil expression", (*cond.Expression)(nil)},
		{"nil mapped expression pointer", (*MappedExpression)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &Extension{PrecedingOperator: "and"}
			stmt := NewStatement(Question)
			stmt.WriteSQL("deleted = 0")

			params := map[string]any{"filter": tt.param}
			ok, err := ext.Apply(params, ParseParameterRef("filter"), stmt)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, "deleted = 0", stmt.SQL())
			assert.Zero(t, stmt.Len())

			ok, err = ext.Apply(params, ParseParameterRef("filter!"), stmt)
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, errors.ErrMissingParameter))
			assert.Equal(t, "deleted = 0", stmt.SQL())
		})
	}
}

func TestExtension_MappedExpression(t *testing.T) {
	ext := &Extension{Compiler: NewCompiler(nil, nil), PrecedingOperator: "and"}
	stmt := NewStatement(Named)
	stmt.WriteSQL("SELECT * FROM views WHERE deleted = 0")

	params := map[string]any{
		"filter": &MappedExpression{
			Mapper:     UpperSnakeMapper,
			Expression: testutil.Bin[string]("viewID", cond.Equals, "Blub"),
		},
		"limit": 10,
	}
	ok, err := ext.Apply(params, ParseParameterRef("filter!"), stmt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "SELECT * FROM views WHERE deleted = 0 and VIEW_ID = :filter_0", stmt.SQL())
	assert.Equal(t, []any{"Blub"}, stmt.Args())
	assert.NotContains(t, params, "filter")
	assert.Contains(t, params, "limit")
}

func TestExtension_ValueMappedExpression(t *testing.T) {
	ext := &Extension{PrecedingOperator: "or"}
	stmt := NewStatement(Question)

	params := map[string]any{"expression": MappedExpression{Expression: testutil.SimpleAnd()}}
	ok, err := ext.Apply(params, ParseParameterRef(""), stmt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "or firstName = ? and lastName = ?", stmt.SQL())
}

func TestExtension_BareConnectable(t *testing.T) {
	ext := &Extension{Compiler: NewCompiler(UpperSnakeMapper, nil)}
	stmt := NewStatement(Dollar)

	ok, err := ext.Apply(map[string]any{"f": testutil.GroupExpression()}, ParseParameterRef("f"), stmt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t,
		"FIRST_NAME = $1 or FIRST_NAME = $2 and ( LAST_NAME = $3 and MARRIED in ( $4, $5 ) )",
		stmt.SQL())
}

func TestExtension_InvalidTreeWritesNothing(t *testing.T) {
	ext := &Extension{PrecedingOperator: "and"}
	stmt := NewStatement(Question)

	ok, err := ext.Apply(map[string]any{"f": testutil.NoValue()}, ParseParameterRef("f"), stmt)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "parameter [f]")

	var verr *cond.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Empty(t, stmt.SQL())
	assert.Zero(t, stmt.Len())
}

func TestExtension_WrongParameterType(t *testing.T) {
	ext := &Extension{}
	ok, err := ext.Apply(map[string]any{"f": "name = 1"}, ParseParameterRef("f"), NewStatement(Question))
	assert.False(t, ok)
	assert.ErrorContains(t, err, "parameter [f] is a string, not a condition tree")
}

func TestExtension_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ext := &Extension{Compiler: NewCompiler(nil, zap.New(core)), PrecedingOperator: "and"}

	_, err := ext.Apply(map[string]any{"f": testutil.SimpleObject()}, ParseParameterRef("f!"), NewStatement(Question))
	require.NoError(t, err)

	entries := logs.FilterMessage("applied condition parameter").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "f!", entries[0].ContextMap()["parameter"])
}
