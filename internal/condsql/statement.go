package condsql

import (
	"database/sql"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/condkit/internal/errors"
)

// Sink receives a compiled fragment: SQL text and bind values.
type Sink interface {
	// WriteSQL appends raw SQL text.
	WriteSQL(s string)
	// Bind registers a value under name and returns the placeholder text to
	// put into the SQL.
	Bind(name string, value any) string
}

// PlaceholderStyle defines how bind placeholders are written.
type PlaceholderStyle int

const (
	// Question uses ? for all parameters (SQLite, MySQL).
	Question PlaceholderStyle = iota
	// Dollar uses $1, $2, etc. (PostgreSQL).
	Dollar
	// Named uses :name.
	Named
	// AtNamed uses @name (SQL Server).
	AtNamed
)

var placeholderStyleNames = map[PlaceholderStyle]string{
	Question: "question",
	Dollar:   "dollar",
	Named:    "named",
	AtNamed:  "atnamed",
}

func (s PlaceholderStyle) String() string {
	if name, ok := placeholderStyleNames[s]; ok {
		return name
	}
	return "PlaceholderStyle(" + strconv.Itoa(int(s)) + ")"
}

// ParsePlaceholderStyle resolves a style from its name.
func ParsePlaceholderStyle(s string) (PlaceholderStyle, error) {
	for style, name := range placeholderStyleNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return style, nil
		}
	}
	return Question, errors.Newf("unknown placeholder style %q (want question, dollar, named or atnamed)", s)
}

// Statement is the default Sink. It collects SQL text and bind values in
// order. A Statement is not safe for concurrent use.
type Statement struct {
	Style PlaceholderStyle

	buf   strings.Builder
	names []string
	args  []any
}

// NewStatement returns an empty statement using style.
func NewStatement(style PlaceholderStyle) *Statement {
	return &Statement{Style: style}
}

func (s *Statement) WriteSQL(text string) {
	s.buf.WriteString(text)
}

func (s *Statement) Bind(name string, value any) string {
	s.names = append(s.names, name)
	s.args = append(s.args, value)
	switch s.Style {
	case Dollar:
		return "$" + strconv.Itoa(len(s.args))
	case Named:
		return ":" + name
	case AtNamed:
		return "@" + name
	default:
		return "?"
	}
}

// SQL returns the collected text without surrounding whitespace.
func (s *Statement) SQL() string {
	return strings.TrimSpace(s.buf.String())
}

// Args returns the bind values in placeholder order.
func (s *Statement) Args() []any {
	return slices.Clone(s.args)
}

// NamedArgs returns the bind values paired with their names, for drivers
// that accept sql.NamedArg.
func (s *Statement) NamedArgs() []any {
	out := make([]any, len(s.args))
	for i, v := range s.args {
		out[i] = sql.Named(s.names[i], v)
	}
	return out
}

// Names returns the bind names in placeholder order.
func (s *Statement) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of bind values.
func (s *Statement) Len() int {
	return len(s.args)
}
