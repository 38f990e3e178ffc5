package cond

// TraversalState tells whether the iterator is entering a node or leaving an
// expression whose nested chain has been fully iterated.
type TraversalState int

const (
	TraversalEnter TraversalState = iota
	TraversalExit
)

type frame struct {
	node  Connectable
	state TraversalState
}

// Iterator linearizes a tree without recursion. Nodes are returned in
// pre-order: a node, then the nested chain of an expression, then the node
// linked by its conjunction. Every expression is returned a second time with
// TraversalExit once its nested chain is done.
//
// The iterator does not remember visited nodes; on a cyclic tree it runs
// forever unless the caller uses SkipChildren on repeats (as HasCycle does).
//
//	it := cond.NewIterator(root)
//	for it.Next() {
//	    if it.State() == cond.TraversalEnter {
//	        fmt.Printf("%T\n", it.Node())
//	    }
//	}
type Iterator struct {
	pending *stack[frame]
	current frame
	started bool
	skip    bool
}

// NewIterator returns an iterator positioned before root.
func NewIterator(root Connectable) *Iterator {
	it := &Iterator{pending: newStack[frame]()}
	if !isNil(root) {
		it.pending.Push(frame{node: root, state: TraversalEnter})
	}
	return it
}

// Next advances to the next event and reports whether there is one.
func (it *Iterator) Next() bool {
	if it.started && it.current.state == TraversalEnter && !it.skip {
		it.pushChildren(it.current.node)
	}
	it.started = true
	it.skip = false
	if it.pending.Length() == 0 {
		it.current = frame{}
		return false
	}
	it.current = it.pending.Pop()
	return true
}

// Node returns the node of the current event.
func (it *Iterator) Node() Connectable {
	return it.current.node
}

// State returns whether the current event enters a node or exits an expression.
func (it *Iterator) State() TraversalState {
	return it.current.state
}

// SkipChildren prevents the iterator from descending below the current node:
// neither its nested chain nor its conjunction target will be returned, and
// no exit event is produced for it.
func (it *Iterator) SkipChildren() {
	it.skip = true
}

// pushChildren schedules, in LIFO order, the conjunction target, the exit
// event and the nested chain so that they come out nested-first.
func (it *Iterator) pushChildren(n Connectable) {
	if conj := n.Conjunction(); conj != nil && !isNil(conj.Next()) {
		it.pending.Push(frame{node: conj.Next(), state: TraversalEnter})
	}
	if e, ok := n.(*Expression); ok {
		it.pending.Push(frame{node: e, state: TraversalExit})
		if !isNil(e.condition) {
			it.pending.Push(frame{node: e.condition, state: TraversalEnter})
		}
	}
}
