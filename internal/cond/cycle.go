package cond

import (
	"github.com/roach88/condkit/internal/errors"
)

// HasCycle reports whether a traversal starting at node would not terminate.
//
// The scan is linear and non-recursive. Nodes are tracked by identity; a node
// reached a second time is a cycle if it still links to a next node, or if it
// is an expression reached again from inside its own nested chain. A node that
// is shared as a plain leaf (no outgoing conjunction) is not a cycle, and it
// is never descended into twice.
func HasCycle(node Connectable) bool {
	seen := make(map[Connectable]struct{})
	open := make(map[*Expression]struct{})

	it := NewIterator(node)
	for it.Next() {
		n := it.Node()
		if it.State() == TraversalExit {
			delete(open, n.(*Expression))
			continue
		}
		if _, repeated := seen[n]; repeated {
			if n.Conjunction() != nil {
				return true
			}
			if e, ok := n.(*Expression); ok {
				if _, inside := open[e]; inside {
					return true
				}
			}
			it.SkipChildren()
			continue
		}
		seen[n] = struct{}{}
		if e, ok := n.(*Expression); ok {
			open[e] = struct{}{}
		}
	}
	return false
}

// CheckCycle returns an error wrapping errors.ErrCycleDetected when node
// contains a cycle. Every algorithm that walks a tree calls it first.
func CheckCycle(node Connectable) error {
	if HasCycle(node) {
		return errors.Wrapf(errors.ErrCycleDetected, "the given element '%s' contains a cycle", describe(node))
	}
	return nil
}

// IsCycleError checks if an error was raised by the cycle guard.
func IsCycleError(err error) bool {
	return err != nil && errors.Is(err, errors.ErrCycleDetected)
}

// describe renders a node without following any link, so it is safe on
// cyclic trees.
func describe(n Connectable) string {
	if isNil(n) {
		return "<NULL>"
	}
	neg := ""
	if n.Negated() {
		neg = "!"
	}
	switch node := n.(type) {
	case *Expression:
		if node.condition == nil {
			return neg + "( )"
		}
		return neg + "( ... )"
	case Condition:
		return neg + node.AttributeName() + " " + node.Operator().Symbol()
	default:
		return "<unknown>"
	}
}
