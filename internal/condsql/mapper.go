package condsql

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mapper translates logical attribute names to column names.
// Implementations must be stateless or safe for concurrent use.
type Mapper interface {
	Map(name string) string
}

// MapperFunc adapts a function to Mapper.
type MapperFunc func(name string) string

func (f MapperFunc) Map(name string) string { return f(name) }

// IdentityMapper uses attribute names as column names.
var IdentityMapper Mapper = MapperFunc(func(name string) string { return name })

// MapMapper looks names up in Columns and hands unknown names to Fallback,
// or returns them unchanged when Fallback is nil.
type MapMapper struct {
	Columns  map[string]string
	Fallback Mapper
}

func (m MapMapper) Map(name string) string {
	if col, ok := m.Columns[name]; ok {
		return col
	}
	if m.Fallback != nil {
		return m.Fallback.Map(name)
	}
	return name
}

// UpperSnakeMapper turns camelCase attribute names into upper snake case
// columns: ownedByUserID becomes OWNED_BY_USER_ID.
var UpperSnakeMapper Mapper = MapperFunc(upperSnake)

func upperSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	// A Caser keeps state, so each call gets its own.
	return cases.Upper(language.Und).String(b.String())
}
