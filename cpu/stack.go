package cpu

const (
	STACK_LIMIT = 16 // Stack slots, including the unused slot 0.
)

// Stack is the subroutine return stack.
//
// Push advances Pointer before storing, and Pop loads before retreating,
// so slot 0 is never written and at most STACK_LIMIT-1 returns nest.
type Stack struct {
	Slot    [STACK_LIMIT]uint16 // Return addresses.
	Pointer int                 // Most recently pushed slot.
}

// Push stores a return address, returning false if the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() || s.Pointer < 0 {
		return
	}

	s.Pointer++
	s.Slot[s.Pointer] = value
	return true
}

// Pop removes the most recent return address, returning false if the stack is empty.
func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Pointer--
	}
	return
}

// Peek returns the most recent return address without removing it.
func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() || s.Pointer >= STACK_LIMIT {
		return
	}

	return s.Slot[s.Pointer], true
}

func (s *Stack) Empty() bool {
	return s.Pointer <= 0
}

func (s *Stack) Full() bool {
	return s.Pointer >= STACK_LIMIT-1
}

// Depth returns the number of nested calls.
func (s *Stack) Depth() int {
	return max(s.Pointer, 0)
}

func (s *Stack) Reset() {
	clear(s.Slot[:])
	s.Pointer = 0
}
