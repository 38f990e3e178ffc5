package condsql

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatement_Placeholders(t *testing.T) {
	tests := []struct {
		style PlaceholderStyle
		want  []string
	}{
		{Question, []string{"?", "?"}},
		{Dollar, []string{"$1", "$2"}},
		{Named, []string{":p_0", ":p_1"}},
		{AtNamed, []string{"@p_0", "@p_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			s := NewStatement(tt.style)
			got := []string{s.Bind("p_0", 1), s.Bind("p_1", "x")}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []any{1, "x"}, s.Args())
			assert.Equal(t, []string{"p_0", "p_1"}, s.Names())
			assert.Equal(t, 2, s.Len())
		})
	}
}

func TestStatement_SQLIsTrimmed(t *testing.T) {
	s := NewStatement(Question)
	s.WriteSQL(" a")
	s.WriteSQL(" =")
	s.WriteSQL(" " + s.Bind("a_0", 1))
	assert.Equal(t, "a = ?", s.SQL())
}

func TestStatement_ArgsAreCopies(t *testing.T) {
	s := NewStatement(Question)
	s.Bind("a", 1)
	args := s.Args()
	args[0] = 2
	assert.Equal(t, []any{1}, s.Args())
}

func TestStatement_NamedArgs(t *testing.T) {
	s := NewStatement(Named)
	s.Bind("filter_0", "Blub")
	s.Bind("filter_1_0", int64(12))

	assert.Equal(t, []any{
		sql.Named("filter_0", "Blub"),
		sql.Named("filter_1_0", int64(12)),
	}, s.NamedArgs())
	assert.Empty(t, NewStatement(Named).NamedArgs())
}

func TestParsePlaceholderStyle(t *testing.T) {
	for _, style := range []PlaceholderStyle{Question, Dollar, Named, AtNamed} {
		got, err := ParsePlaceholderStyle(style.String())
		require.NoError(t, err)
		assert.Equal(t, style, got)
	}

	got, err := ParsePlaceholderStyle(" Dollar ")
	require.NoError(t, err)
	assert.Equal(t, Dollar, got)

	_, err = ParsePlaceholderStyle("colon")
	assert.ErrorContains(t, err, `unknown placeholder style "colon"`)
	assert.Equal(t, "PlaceholderStyle(9)", PlaceholderStyle(9).String())
}
