// Package cond provides a typed boolean condition tree: attribute/operator/value
// triples combined with AND/OR, negation and grouping.
//
// NODE MODEL:
//
// Connectable is a sealed interface with four implementations:
//
//	*Expression         group wrapping a nested chain ( ... )
//	*UnaryCondition     name isNull
//	*BinaryCondition    name == value
//	*PolyadicCondition  name in ( a, b ), name between a and b
//
// Every node may link to the next node of its chain through a Conjunction
// (AND or OR). Operators are checked against the node shape when they are
// assigned and values against the declared reflect.Type when they are set, so
// an ill-typed tree cannot be built. Semantic problems (a group without a
// condition, a missing name, operator or value) are reported by the
// validators instead.
//
// TRAVERSAL:
//
// Walk drives a Visitor through the canonical pre-order sequence. Equality,
// copy, formatting and validation are all visitors over that sequence, so
// they agree on tree semantics:
//
//	Equal / EqualTokens   structural and linearized comparison
//	Copy                  independent deep copy
//	Format                debug rendering
//	ValidateDetailed      collect-all report
//	Validate              fail-fast
//
// CYCLE GUARD:
//
// Conjunction links are plain pointers, so a caller can wire a chain back
// onto itself. Every algorithm above runs CheckCycle, a non-recursive scan
// built on Iterator, before walking and fails with errors.ErrCycleDetected.
// Walk itself does not check.
//
// CONCURRENCY:
//
// Nodes and visitors are not safe for concurrent mutation. Different trees
// may be formatted, copied or validated concurrently; the operator table and
// the default Formatter are immutable.
package cond
