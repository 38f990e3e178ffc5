// Package condsql compiles condition trees into parameterized SQL WHERE
// fragments.
//
// Values are never interpolated: every value goes through Sink.Bind and only
// the returned placeholder reaches the SQL text. Trees are validated (fail
// fast, null values rejected) before anything is written.
//
//	stmt := condsql.NewStatement(condsql.Question)
//	err := condsql.NewCompiler(condsql.UpperSnakeMapper, nil).Compile(tree, "filter", stmt)
//	rows, err := db.Query("SELECT * FROM views WHERE "+stmt.SQL(), stmt.Args()...)
package condsql

import (
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
	"github.com/roach88/condkit/internal/logger"
)

// DefaultParameterName is the bind base name used when none is given.
const DefaultParameterName = "expression"

var sqlOperators = map[cond.Operator]string{
	cond.IsNotNull:           " is not null",
	cond.IsNull:              " is null",
	cond.Equals:              " =",
	cond.NotEquals:           " <>",
	cond.GreaterThan:         " >",
	cond.GreaterThanOrEquals: " >=",
	cond.LessThan:            " <",
	cond.LessThanOrEquals:    " <=",
	cond.Like:                " like",
	cond.NotLike:             " not like",
	cond.Between:             " between",
	cond.In:                  " in",
	cond.NotIn:               " not in",
}

// Compiler renders trees as SQL. The zero value uses the identity mapper and
// no logging. A Compiler is safe for concurrent use on different sinks.
type Compiler struct {
	Mapper Mapper
	Logger *zap.Logger
}

// NewCompiler returns a compiler using mapper and log; nil arguments fall
// back to the identity mapper and a no-op logger.
func NewCompiler(mapper Mapper, log *zap.Logger) *Compiler {
	c := &Compiler{Mapper: mapper, Logger: log}
	if c.Mapper == nil {
		c.Mapper = IdentityMapper
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return c
}

// Compile validates node and writes it to sink. Bind names are base_0,
// base_1, ... in traversal order; an empty base means DefaultParameterName.
func (c *Compiler) Compile(node cond.Connectable, base string, sink Sink) error {
	if err := cond.Validate(node, false); err != nil {
		return errors.Wrap(err, "compile condition")
	}
	return c.compile(node, base, sink)
}

// compile writes an already validated tree.
func (c *Compiler) compile(node cond.Connectable, base string, sink Sink) error {
	if sink == nil {
		return errors.Wrap(errors.ErrNilArgument, "no sink given")
	}
	if base == "" {
		base = DefaultParameterName
	}
	mapper := c.Mapper
	if mapper == nil {
		mapper = IdentityMapper
	}
	v := &sqlVisitor{sink: sink, mapper: mapper, base: base}
	if err := cond.Walk(v, node); err != nil {
		return errors.Wrap(err, "compile condition")
	}
	if c.Logger != nil {
		c.Logger.Debug("compiled condition",
			zap.String("base", base),
			zap.Int("conditions", v.next),
			zap.Int("bindings", v.binds))
	}
	return nil
}

// CompileString compiles node with ? placeholders and the default base name.
func CompileString(node cond.Connectable, mapper Mapper) (string, []any, error) {
	stmt := NewStatement(Question)
	if err := NewCompiler(mapper, nil).Compile(node, DefaultParameterName, stmt); err != nil {
		return "", nil, err
	}
	return stmt.SQL(), stmt.Args(), nil
}

type sqlVisitor struct {
	sink   Sink
	mapper Mapper
	base   string
	next   int
	binds  int
}

func (v *sqlVisitor) bind(name string, value any) string {
	v.binds++
	return v.sink.Bind(name, value)
}

func (v *sqlVisitor) bindingName() string {
	name := v.base + "_" + strconv.Itoa(v.next)
	v.next++
	return name
}

func (v *sqlVisitor) negate(negate bool) {
	if negate {
		v.sink.WriteSQL(" not")
	}
}

func (v *sqlVisitor) StartExpression(negate bool) error {
	v.negate(negate)
	v.sink.WriteSQL(" (")
	return nil
}

func (v *sqlVisitor) EndExpression() error {
	v.sink.WriteSQL(" )")
	return nil
}

func (v *sqlVisitor) Conjunct(t cond.ConjunctionType) error {
	switch t {
	case cond.And:
		v.sink.WriteSQL(" and")
	case cond.Or:
		v.sink.WriteSQL(" or")
	default:
		return errors.AssertionFailedf("unknown conjunction type %s", t)
	}
	return nil
}

func (v *sqlVisitor) condition(negate bool, name string, op cond.Operator) error {
	token, ok := sqlOperators[op]
	if !ok {
		return errors.AssertionFailedf("unknown operator %s", op)
	}
	v.negate(negate)
	v.sink.WriteSQL(" " + v.mapper.Map(name))
	v.sink.WriteSQL(token)
	return nil
}

func (v *sqlVisitor) VisitUnaryCondition(negate bool, name string, _ reflect.Type, op cond.Operator) error {
	return v.condition(negate, name, op)
}

func (v *sqlVisitor) VisitBinaryCondition(negate bool, name string, _ reflect.Type, op cond.Operator, value any) error {
	if err := v.condition(negate, name, op); err != nil {
		return err
	}
	v.sink.WriteSQL(" " + v.bind(v.bindingName(), value))
	return nil
}

// VisitPolyadicCondition binds every element under the condition's binding
// name with an index suffix: base_1_0, base_1_1, ...
func (v *sqlVisitor) VisitPolyadicCondition(negate bool, name string, _ reflect.Type, op cond.Operator, values []any) error {
	if err := v.condition(negate, name, op); err != nil {
		return err
	}
	binding := v.bindingName()
	placeholders := make([]string, len(values))
	for i, value := range values {
		placeholders[i] = v.bind(binding+"_"+strconv.Itoa(i), value)
	}

	if op == cond.Between {
		if len(placeholders) != 2 {
			return errors.AssertionFailedf("between needs two values, got %d", len(placeholders))
		}
		v.sink.WriteSQL(" " + placeholders[0] + " and " + placeholders[1])
		return nil
	}
	v.sink.WriteSQL(" (")
	for i, p := range placeholders {
		if i > 0 {
			v.sink.WriteSQL(",")
		}
		v.sink.WriteSQL(" " + p)
	}
	v.sink.WriteSQL(" )")
	return nil
}
