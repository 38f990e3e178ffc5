package condsql

import (
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
)

// ParameterRef names the query parameter holding a condition tree.
type ParameterRef struct {
	Name      string
	Mandatory bool
}

// ParseParameterRef parses a reference such as "filter!" (mandatory),
// "filter?" or "filter" (optional). An empty reference names the optional
// DefaultParameterName.
func ParseParameterRef(s string) ParameterRef {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ParameterRef{Name: DefaultParameterName}
	case strings.HasSuffix(s, "!"):
		return ParameterRef{Name: strings.TrimSuffix(s, "!"), Mandatory: true}
	case strings.HasSuffix(s, "?"):
		return ParameterRef{Name: strings.TrimSuffix(s, "?")}
	default:
		return ParameterRef{Name: s}
	}
}

func (r ParameterRef) String() string {
	if r.Mandatory {
		return r.Name + "!"
	}
	return r.Name + "?"
}

// MappedExpression is a query parameter: a tree plus the mapper for its
// attribute names.
type MappedExpression struct {
	Mapper     Mapper
	Expression cond.Connectable
}

// Extension splices a compiled parameter into a larger hand-written query.
// PrecedingOperator (typically "and" or "or") is written before the
// fragment, and dropped together with it when an optional parameter is
// absent.
type Extension struct {
	Compiler          *Compiler
	PrecedingOperator string
}

// Apply looks up ref in params and writes the compiled fragment to sink.
// A used parameter is removed from params so callers can detect leftovers.
// It reports false when an optional parameter is absent and fails with
// errors.ErrMissingParameter when a mandatory one is. A parameter is either a
// *MappedExpression or a bare cond.Connectable, compiled with the
// compiler's mapper.
func (e *Extension) Apply(params map[string]any, ref ParameterRef, sink Sink) (bool, error) {
	compiler := e.Compiler
	if compiler == nil {
		compiler = NewCompiler(nil, nil)
	}

	var node cond.Connectable
	switch p := params[ref.Name].(type) {
	case nil:
	case *MappedExpression:
		if p != nil {
			node = p.Expression
			compiler = compiler.withMapper(p.Mapper)
		}
	case MappedExpression:
		node = p.Expression
		compiler = compiler.withMapper(p.Mapper)
	case cond.Connectable:
		node = p
	default:
		return false, errors.Newf("parameter [%s] is a %T, not a condition tree", ref.Name, p)
	}

	if cond.IsNil(node) {
		if ref.Mandatory {
			return false, errors.WithHintf(
				errors.Wrapf(errors.ErrMissingParameter, "missing mandatory parameter [%s]", ref.Name),
				"pass a condition tree under %q", ref.Name)
		}
		return false, nil
	}
	delete(params, ref.Name)

	if err := cond.Validate(node, false); err != nil {
		return false, errors.Wrapf(err, "parameter [%s]", ref.Name)
	}
	if op := strings.TrimSpace(e.PrecedingOperator); op != "" {
		sink.WriteSQL(" " + op)
	}
	if err := compiler.compile(node, ref.Name, sink); err != nil {
		return false, err
	}
	if compiler.Logger != nil {
		compiler.Logger.Debug("applied condition parameter",
			zap.Stringer("parameter", ref),
			zap.String("preceding_operator", e.PrecedingOperator))
	}
	return true, nil
}

func (c *Compiler) withMapper(m Mapper) *Compiler {
	if m == nil {
		return c
	}
	return &Compiler{Mapper: m, Logger: c.Logger}
}
