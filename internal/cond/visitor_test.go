package cond_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
	"github.com/roach88/condkit/internal/testutil"
)

// eventRecorder logs every visitor call as a short string.
type eventRecorder struct {
	events []string
	stopAt int
}

func (r *eventRecorder) record(s string) error {
	r.events = append(r.events, s)
	if r.stopAt > 0 && len(r.events) == r.stopAt {
		return errors.New("stop")
	}
	return nil
}

func (r *eventRecorder) StartExpression(negate bool) error {
	return r.record(fmt.Sprintf("start(%t)", negate))
}

func (r *eventRecorder) EndExpression() error {
	return r.record("end")
}

func (r *eventRecorder) Conjunct(t cond.ConjunctionType) error {
	return r.record(t.String())
}

func (r *eventRecorder) VisitUnaryCondition(negate bool, name string, _ reflect.Type, op cond.Operator) error {
	return r.record(fmt.Sprintf("unary(%t %s %s)", negate, name, op))
}

func (r *eventRecorder) VisitBinaryCondition(negate bool, name string, _ reflect.Type, op cond.Operator, value any) error {
	return r.record(fmt.Sprintf("binary(%t %s %s %v)", negate, name, op, value))
}

func (r *eventRecorder) VisitPolyadicCondition(negate bool, name string, _ reflect.Type, op cond.Operator, values []any) error {
	return r.record(fmt.Sprintf("polyadic(%t %s %s %v)", negate, name, op, values))
}

func TestWalk_CanonicalOrder(t *testing.T) {
	rec := &eventRecorder{}
	require.NoError(t, cond.Walk(rec, testutil.GroupExpression()))

	assert.Equal(t, []string{
		"binary(false firstName EQUALS Herbert)",
		"OR",
		"binary(false firstName EQUALS Hubert)",
		"AND",
		"start(false)",
		"binary(false lastName EQUALS Blub)",
		"AND",
		"polyadic(false married IN [wald traut])",
		"end",
	}, rec.events)
}

func TestWalk_NegatedAndEmptyExpressions(t *testing.T) {
	rec := &eventRecorder{}
	tree := testutil.Chain(testutil.Not(testutil.Group(nil)),
		testutil.OR(testutil.Un[string]("name", cond.IsNotNull)))
	require.NoError(t, cond.Walk(rec, tree))

	assert.Equal(t, []string{
		"start(true)",
		"end",
		"OR",
		"unary(false name IS_NOT_NULL)",
	}, rec.events)
}

func TestWalk_StopsOnError(t *testing.T) {
	rec := &eventRecorder{stopAt: 3}
	err := cond.Walk(rec, testutil.GroupExpression())
	require.Error(t, err)
	assert.Equal(t, "stop", err.Error())
	assert.Len(t, rec.events, 3)
}

func TestWalk_NilNode(t *testing.T) {
	rec := &eventRecorder{}
	require.NoError(t, cond.Walk(rec, nil))
	assert.Empty(t, rec.events)
}

func TestWalk_PolyadicValuesAreCopies(t *testing.T) {
	poly := testutil.Poly[int]("id", cond.In, 1, 2)
	mutator := &valueMutator{}
	require.NoError(t, cond.Walk(mutator, poly))
	assert.Equal(t, []any{1, 2}, poly.Values())
}

type valueMutator struct{ eventRecorder }

func (m *valueMutator) VisitPolyadicCondition(_ bool, _ string, _ reflect.Type, _ cond.Operator, values []any) error {
	values[0] = 99
	return nil
}

type iterEvent struct {
	node  cond.Connectable
	state cond.TraversalState
}

func collect(it *cond.Iterator) []iterEvent {
	var out []iterEvent
	for it.Next() {
		out = append(out, iterEvent{it.Node(), it.State()})
	}
	return out
}

func TestIterator_PreOrderWithExit(t *testing.T) {
	herbert := testutil.Bin[string]("firstName", cond.Equals, "Herbert")
	hubert := testutil.Bin[string]("firstName", cond.Equals, "Hubert")
	lastName := testutil.Bin[string]("lastName", cond.Equals, "Blub")
	married := testutil.Poly[string]("married", cond.In, "wald", "traut")
	after := testutil.Un[string]("comment", cond.IsNull)
	group := testutil.Group(testutil.Chain(lastName, testutil.AND(married)))
	root := testutil.Chain(herbert, testutil.OR(hubert), testutil.AND(group), testutil.OR(after))

	events := collect(cond.NewIterator(root))

	want := []iterEvent{
		{herbert, cond.TraversalEnter},
		{hubert, cond.TraversalEnter},
		{group, cond.TraversalEnter},
		{lastName, cond.TraversalEnter},
		{married, cond.TraversalEnter},
		{group, cond.TraversalExit},
		{after, cond.TraversalEnter},
	}
	require.Len(t, events, len(want))
	for i := range want {
		assert.Same(t, want[i].node, events[i].node, "event %d", i)
		assert.Equal(t, want[i].state, events[i].state, "event %d", i)
	}
}

func TestIterator_SkipChildren(t *testing.T) {
	inner := testutil.Bin[string]("inner", cond.Equals, "x")
	after := testutil.Bin[string]("after", cond.Equals, "y")
	group := testutil.Group(inner)
	root := testutil.Chain(group, testutil.AND(after))

	it := cond.NewIterator(root)
	require.True(t, it.Next())
	assert.Same(t, group, it.Node())
	it.SkipChildren()
	assert.False(t, it.Next())
}

func TestIterator_Empty(t *testing.T) {
	assert.Empty(t, collect(cond.NewIterator(nil)))
}
