package cond

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
	"time"
)

// DateLayout is the default rendering of time.Time values.
const DateLayout = "02.01.2006 - 15:04"

// ValueFormatter renders a single non-nil value.
type ValueFormatter func(v any) string

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithValueFormatter renders values of attributes declared with type t
// through fn.
func WithValueFormatter(t reflect.Type, fn ValueFormatter) FormatterOption {
	return func(f *Formatter) {
		f.values[t] = fn
	}
}

// Formatter renders trees as debug strings such as
//
//	name == "Test" && !( viewCount between 4 and 99 || id in ( 1, 2 ) )
//
// A Formatter is immutable after construction and safe for concurrent use.
type Formatter struct {
	values map[reflect.Type]ValueFormatter
}

var defaultValueFormatters = map[reflect.Type]ValueFormatter{
	TypeOf[string](): func(v any) string {
		return `"` + fmt.Sprint(v) + `"`
	},
	TypeOf[time.Time](): func(v any) string {
		if t, ok := v.(time.Time); ok {
			return "/" + t.Format(DateLayout) + "/"
		}
		return fmt.Sprint(v)
	},
}

// NewFormatter returns a formatter with the default string and time.Time
// renderings plus the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{values: maps.Clone(defaultValueFormatters)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var defaultFormatter = NewFormatter()

// Format renders node with the default formatter. A nil node renders as
// <NULL>.
func Format(node Connectable) (string, error) {
	return defaultFormatter.Format(node)
}

// Format renders node. The tree is checked for cycles first.
func (f *Formatter) Format(node Connectable) (string, error) {
	if isNil(node) {
		return "<NULL>", nil
	}
	if err := CheckCycle(node); err != nil {
		return "", err
	}
	w := &formatVisitor{f: f}
	if err := Walk(w, node); err != nil {
		return "", err
	}
	return strings.TrimSpace(w.buf.String()), nil
}

func (f *Formatter) formatValue(typ reflect.Type, v any) string {
	if v == nil {
		return "<" + typeName(typ) + ":NULL>"
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && (typ == nil || typ.Kind() != reflect.Pointer) {
		if rv.IsNil() {
			return "<" + typeName(typ) + ":NULL>"
		}
		v = rv.Elem().Interface()
	}
	if fn, ok := f.values[typ]; ok {
		return fn(v)
	}
	if fn, ok := f.values[reflect.TypeOf(v)]; ok {
		return fn(v)
	}
	return fmt.Sprint(v)
}

type formatVisitor struct {
	f   *Formatter
	buf strings.Builder
}

func (w *formatVisitor) StartExpression(negate bool) error {
	if w.buf.Len() > 0 {
		w.buf.WriteByte(' ')
	}
	if negate {
		w.buf.WriteByte('!')
	}
	w.buf.WriteByte('(')
	return nil
}

func (w *formatVisitor) EndExpression() error {
	w.buf.WriteString(" )")
	return nil
}

func (w *formatVisitor) Conjunct(t ConjunctionType) error {
	if t == And {
		w.buf.WriteString(" &&")
	} else {
		w.buf.WriteString(" ||")
	}
	return nil
}

func (w *formatVisitor) condition(negate bool, name string, op Operator) {
	w.buf.WriteByte(' ')
	if negate {
		w.buf.WriteByte('!')
	}
	w.buf.WriteString(name)
	w.buf.WriteByte(' ')
	w.buf.WriteString(op.Symbol())
}

func (w *formatVisitor) VisitUnaryCondition(negate bool, name string, _ reflect.Type, op Operator) error {
	w.condition(negate, name, op)
	return nil
}

func (w *formatVisitor) VisitBinaryCondition(negate bool, name string, typ reflect.Type, op Operator, value any) error {
	w.condition(negate, name, op)
	w.buf.WriteByte(' ')
	w.buf.WriteString(w.f.formatValue(typ, value))
	return nil
}

func (w *formatVisitor) VisitPolyadicCondition(negate bool, name string, typ reflect.Type, op Operator, values []any) error {
	w.condition(negate, name, op)
	switch {
	case len(values) == 0:
		w.buf.WriteString(" <" + typeName(typ) + ":NULL>")
	case op == Between:
		for i, v := range values {
			if i > 0 {
				w.buf.WriteString(" and")
			}
			w.buf.WriteByte(' ')
			w.buf.WriteString(w.f.formatValue(typ, v))
		}
	default:
		w.buf.WriteString(" (")
		for i, v := range values {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.buf.WriteByte(' ')
			w.buf.WriteString(w.f.formatValue(typ, v))
		}
		w.buf.WriteString(" )")
	}
	return nil
}
