package cpu

import "fmt"

// StackSize is the number of return addresses the call stack can hold.
const StackSize = 256

// Stack is the bounded call stack of return addresses.
type Stack struct {
	entries [StackSize]uint16
	sp      int
}

// Push stores a return address on top of the stack.
func (s *Stack) Push(address uint16) error {
	if s.sp >= StackSize {
		return fmt.Errorf("%w: pushing $%03X with %d entries", ErrStackOverflow, address, s.sp)
	}
	s.entries[s.sp] = address
	s.sp++
	return nil
}

// Pop removes and returns the return address on top of the stack.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.entries[s.sp], nil
}

// Len returns the number of stored return addresses.
func (s *Stack) Len() int {
	return s.sp
}
