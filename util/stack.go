package util

// Stack is a LIFO list. The interfaces keep their previous states on it.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top item. An empty stack yields the zero value.
func (s *Stack[T]) Pop() T {
	top := s.Peek()
	if n := len(s.items); n > 0 {
		s.items = s.items[:n-1]
	}
	return top
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() T {
	var top T
	if n := len(s.items); n > 0 {
		top = s.items[n-1]
	}
	return top
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
