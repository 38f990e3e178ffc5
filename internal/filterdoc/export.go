package filterdoc

import (
	"bytes"
	"reflect"
	"time"

	"cuelang.org/go/cue/cuecontext"
	cueformat "cuelang.org/go/cue/format"
	"gopkg.in/yaml.v3"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
)

// FromTree describes node as a document. Chains are written in the explicit
// chain form and groups as group nodes, so building the document yields a
// tree equal to node.
func FromTree(node cond.Connectable) (*Document, error) {
	if cond.IsNil(node) {
		return nil, errors.Wrap(errors.ErrNilArgument, "no tree given")
	}
	if err := cond.CheckCycle(node); err != nil {
		return nil, err
	}
	v := &exporter{frames: []*exportFrame{{}}}
	if err := cond.Walk(v, node); err != nil {
		return nil, errors.Wrap(err, "export tree")
	}
	return &Document{Filter: v.frames[0].node()}, nil
}

type exportFrame struct {
	negate  bool
	items   []*Node
	pending cond.ConjunctionType
}

func (f *exportFrame) add(n *Node) {
	switch {
	case len(f.items) == 0:
		f.items = append(f.items, n)
	case f.pending == cond.Or:
		f.items = append(f.items, &Node{Or: n})
	default:
		f.items = append(f.items, &Node{And: n})
	}
	f.pending = 0
}

func (f *exportFrame) node() *Node {
	if len(f.items) == 1 {
		return f.items[0]
	}
	return &Node{Chain: f.items}
}

type exporter struct {
	frames []*exportFrame
}

func (e *exporter) top() *exportFrame { return e.frames[len(e.frames)-1] }

func (e *exporter) StartExpression(negate bool) error {
	e.frames = append(e.frames, &exportFrame{negate: negate})
	return nil
}

func (e *exporter) EndExpression() error {
	f := e.top()
	if len(f.items) == 0 {
		return invalidf("an expression without condition has no document form")
	}
	e.frames = e.frames[:len(e.frames)-1]
	e.top().add(&Node{Group: f.node(), Not: f.negate})
	return nil
}

func (e *exporter) Conjunct(t cond.ConjunctionType) error {
	e.top().pending = t
	return nil
}

func (e *exporter) condition(negate bool, name string, typ reflect.Type, op cond.Operator) (*Node, error) {
	typeName, ok := typeNames[typ]
	if !ok {
		return nil, invalidf("attribute %q: type %s has no document form", name, typ)
	}
	if !op.Valid() {
		return nil, invalidf("attribute %q: no operator", name)
	}
	return &Node{Attribute: name, Type: typeName, Op: op.ShortName(), Not: negate}, nil
}

func (e *exporter) VisitUnaryCondition(negate bool, name string, typ reflect.Type, op cond.Operator) error {
	n, err := e.condition(negate, name, typ, op)
	if err != nil {
		return err
	}
	e.top().add(n)
	return nil
}

func (e *exporter) VisitBinaryCondition(negate bool, name string, typ reflect.Type, op cond.Operator, value any) error {
	n, err := e.condition(negate, name, typ, op)
	if err != nil {
		return err
	}
	n.Value = timeValue(value)
	e.top().add(n)
	return nil
}

func (e *exporter) VisitPolyadicCondition(negate bool, name string, typ reflect.Type, op cond.Operator, values []any) error {
	n, err := e.condition(negate, name, typ, op)
	if err != nil {
		return err
	}
	for i, v := range values {
		values[i] = timeValue(v)
	}
	n.Values = values
	e.top().add(n)
	return nil
}

var typeNames = func() map[reflect.Type]string {
	m := make(map[reflect.Type]string, len(attributeTypes))
	for name, typ := range attributeTypes {
		m[typ] = name
	}
	return m
}()

// Encode writes doc in the given format. Times are written in RFC 3339.
func Encode(doc *Document, format Format) ([]byte, error) {
	if doc == nil {
		return nil, errors.Wrap(errors.ErrNilArgument, "no document given")
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(err, "encode YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encode YAML")
		}
		return buf.Bytes(), nil
	case FormatJSON, FormatCUE:
		v := cuecontext.New().Encode(doc)
		if err := v.Err(); err != nil {
			return nil, errors.Wrap(err, "encode document")
		}
		if format == FormatJSON {
			out, err := v.MarshalJSON()
			if err != nil {
				return nil, errors.Wrap(err, "encode JSON")
			}
			return append(out, '\n'), nil
		}
		out, err := cueformat.Node(v.Syntax())
		if err != nil {
			return nil, errors.Wrap(err, "encode CUE")
		}
		return out, nil
	}
	return nil, errors.Newf("unknown format %s", format)
}

// timeValue keeps time values in UTC so documents do not depend on the
// local zone.
func timeValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC()
	}
	return v
}
