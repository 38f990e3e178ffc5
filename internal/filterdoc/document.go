// Package filterdoc reads filter documents: YAML, JSON or CUE files that
// describe one condition tree.
//
// A node is a condition, a group, a chain of nodes joined by AND (all) or
// OR (any), or an explicit chain mixing both:
//
//	name: active views
//	filter:
//	  all:
//	    - {attribute: viewID, type: string, op: eq, value: Blub}
//	    - group:
//	        any:
//	          - {attribute: ownedByUserID, type: int, op: eq, value: 42}
//	          - {attribute: viewCount, type: int, op: between, values: [4, 99]}
//	      not: true
//
//	filter:
//	  chain:
//	    - {attribute: name, type: string, op: eq, value: Test}
//	    - or: {attribute: ownedByUserID, type: int, op: eq, value: 42}
//
// Every document is checked against an embedded CUE schema before the tree
// is built through condbuild. Chains nested in chains become groups.
// FromTree goes the other way and Encode writes the result.
package filterdoc

import (
	"math/big"
	"reflect"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/condbuild"
	"github.com/roach88/condkit/internal/errors"
)

// Document is a decoded filter document.
type Document struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Filter      *Node  `json:"filter" yaml:"filter"`
}

// Node is one element of a filter. Exactly one of Attribute, Group, All,
// Any and Chain is set. And and Or are only used by the links of a chain.
type Node struct {
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Op        string `json:"op,omitempty" yaml:"op,omitempty"`
	Value     any    `json:"value,omitempty" yaml:"value,omitempty"`
	Values    []any  `json:"values,omitempty" yaml:"values,omitempty,flow"`

	Group *Node   `json:"group,omitempty" yaml:"group,omitempty"`
	All   []*Node `json:"all,omitempty" yaml:"all,omitempty"`
	Any   []*Node `json:"any,omitempty" yaml:"any,omitempty"`
	Chain []*Node `json:"chain,omitempty" yaml:"chain,omitempty"`

	And *Node `json:"and,omitempty" yaml:"and,omitempty"`
	Or  *Node `json:"or,omitempty" yaml:"or,omitempty"`

	Not bool `json:"not,omitempty" yaml:"not,omitempty"`
}

func (n *Node) isChain() bool { return n.All != nil || n.Any != nil || n.Chain != nil }

// attributeTypes maps document type names to attribute types.
var attributeTypes = map[string]reflect.Type{
	"string":  cond.TypeOf[string](),
	"int":     cond.TypeOf[int](),
	"int64":   cond.TypeOf[int64](),
	"float64": cond.TypeOf[float64](),
	"bool":    cond.TypeOf[bool](),
	"time":    cond.TypeOf[time.Time](),
}

// Build constructs the tree described by the document.
func (d *Document) Build() (cond.Connectable, error) {
	if d == nil || d.Filter == nil {
		return nil, errors.Wrap(errors.ErrInvalidDocument, "document has no filter")
	}
	var (
		b   *condbuild.ExpressionBuilder
		err error
	)
	if d.Filter.isChain() && !d.Filter.Not {
		b, err = chain(d.Filter, "filter")
	} else {
		b, err = attach(condbuild.Start(), d.Filter, "filter")
	}
	if err != nil {
		return nil, err
	}
	tree, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build filter")
	}
	return tree, nil
}

// chain builds the nodes of a chain, or a single node, as a new builder.
func chain(n *Node, path string) (*condbuild.ExpressionBuilder, error) {
	if !n.isChain() {
		return attach(condbuild.Start(), n, path)
	}
	if n.Chain != nil {
		return links(n.Chain, path+".chain")
	}
	items, key, and := n.All, "all", true
	if n.Any != nil {
		items, key, and = n.Any, "any", false
	}
	if len(items) == 0 {
		return nil, invalidf("%s.%s: empty chain", path, key)
	}

	b, err := attach(condbuild.Start(), items[0], indexPath(path, key, 0))
	if err != nil {
		return nil, err
	}
	for i, item := range items[1:] {
		next := b.Or()
		if and {
			next = b.And()
		}
		if b, err = attach(next, item, indexPath(path, key, i+1)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// links builds an explicit chain: a first node followed by and/or links.
func links(items []*Node, path string) (*condbuild.ExpressionBuilder, error) {
	if len(items) == 0 {
		return nil, invalidf("%s: empty chain", path)
	}
	b, err := attach(condbuild.Start(), items[0], path+"[0]")
	if err != nil {
		return nil, err
	}
	for i, link := range items[1:] {
		at := path + "[" + strconv.Itoa(i+1) + "]"
		switch {
		case link == nil:
			return nil, invalidf("%s: empty link", at)
		case link.And != nil && link.Or == nil:
			b, err = attach(b.And(), link.And, at+".and")
		case link.Or != nil && link.And == nil:
			b, err = attach(b.Or(), link.Or, at+".or")
		default:
			return nil, invalidf("%s: a link needs exactly one of and, or", at)
		}
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// attach appends n to cb. Groups and chains are wrapped in an expression.
func attach(cb *condbuild.ConnectBuilder, n *Node, path string) (*condbuild.ExpressionBuilder, error) {
	if n == nil {
		return nil, invalidf("%s: empty node", path)
	}
	if n.Not {
		cb = cb.Not()
	}
	switch {
	case n.Group != nil:
		inner, err := chain(n.Group, path+".group")
		if err != nil {
			return nil, err
		}
		return cb.Group(inner), nil
	case n.isChain():
		inner, err := chain(n, path)
		if err != nil {
			return nil, err
		}
		return cb.Group(inner), nil
	default:
		return condition(cb, n, path)
	}
}

func condition(cb *condbuild.ConnectBuilder, n *Node, path string) (*condbuild.ExpressionBuilder, error) {
	typ, ok := attributeTypes[n.Type]
	if !ok {
		return nil, invalidf("%s: unknown type %q", path, n.Type)
	}
	op, err := cond.ParseOperator(n.Op)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidDocument, "%s: %v", path, err)
	}

	var values []any
	switch op.Arity() {
	case cond.Unary:
		if n.Value != nil || n.Values != nil {
			return nil, invalidf("%s: %s takes no value", path, n.Op)
		}
	case cond.Binary:
		if n.Values != nil {
			return nil, invalidf("%s: %s takes a single value, use value", path, n.Op)
		}
		v, err := convert(n.Value, typ)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidDocument, "%s.value: %v", path, err)
		}
		values = []any{v}
	default:
		if n.Value != nil {
			return nil, invalidf("%s: %s takes a list, use values", path, n.Op)
		}
		values = make([]any, len(n.Values))
		for i, raw := range n.Values {
			v, err := convert(raw, typ)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrInvalidDocument, "%s.values[%d]: %v", path, i, err)
			}
			values[i] = v
		}
	}

	return cb.Attribute(norm.NFC.String(n.Attribute), typ).Op(op, values...), nil
}

// convert turns a decoded value into a value of typ. Nil stays nil.
func convert(v any, typ reflect.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	if typ == cond.TypeOf[time.Time]() {
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			parsed, err := time.Parse(time.RFC3339, t)
			if err != nil {
				return nil, errors.Newf("%q is not an RFC 3339 time", t)
			}
			return parsed, nil
		}
		return nil, errors.Newf("%v (%T) is not a time", v, v)
	}

	if b, ok := v.(*big.Int); ok {
		if !b.IsInt64() {
			return nil, errors.Newf("%s overflows %s", b, typ)
		}
		v = b.Int64()
	}
	rv := reflect.ValueOf(v)
	switch typ.Kind() {
	case reflect.String:
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	case reflect.Int, reflect.Int64:
		i, ok := integer(rv)
		if !ok {
			break
		}
		out := reflect.New(typ).Elem()
		if out.OverflowInt(i) {
			return nil, errors.Newf("%d overflows %s", i, typ)
		}
		out.SetInt(i)
		return out.Interface(), nil
	case reflect.Float64:
		switch {
		case rv.CanFloat():
			return rv.Float(), nil
		case rv.CanInt():
			return float64(rv.Int()), nil
		case rv.CanUint():
			return float64(rv.Uint()), nil
		}
	}
	return nil, errors.Newf("%v (%T) does not fit %s", v, v, typ)
}

// integer reads an integral number. Floats qualify when they have no
// fractional part, since JSON has a single number type.
func integer(rv reflect.Value) (int64, bool) {
	switch {
	case rv.CanInt():
		return rv.Int(), true
	case rv.CanUint():
		u := rv.Uint()
		return int64(u), u <= 1<<63-1
	case rv.CanFloat():
		f := rv.Float()
		if f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func indexPath(path, key string, i int) string {
	return path + "." + key + "[" + strconv.Itoa(i) + "]"
}

func invalidf(format string, args ...any) error {
	return errors.Wrapf(errors.ErrInvalidDocument, format, args...)
}
