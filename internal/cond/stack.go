package cond

// stack is a LIFO used by the non-recursive iterator and by the visitors
// that track open expressions.
type stack[T any] struct {
	items []T
}

func newStack[T any]() *stack[T] {
	return &stack[T]{}
}

// Push adds a value to the top of the stack.
func (s *stack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Pop removes the top item and returns it. An empty stack yields the zero value.
func (s *stack[T]) Pop() T {
	var zero T
	if len(s.items) == 0 {
		return zero
	}
	top := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return top
}

// Top returns the item on the top of the stack without removing it.
func (s *stack[T]) Top() T {
	var zero T
	if len(s.items) == 0 {
		return zero
	}
	return s.items[len(s.items)-1]
}

// Length returns the number of items on the stack.
func (s *stack[T]) Length() int {
	return len(s.items)
}
