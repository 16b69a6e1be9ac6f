package cpu

import "errors"

var (
	// ErrStackOverflow is returned when a call exceeds the call stack capacity.
	ErrStackOverflow = errors.New("call stack overflow")
	// ErrStackUnderflow is returned when a return is executed on an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")
	// ErrIllegalInstruction is returned in strict mode for opcodes without a handler.
	ErrIllegalInstruction = errors.New("illegal instruction")
	// ErrInvalidKey is returned for key indexes outside of the keypad.
	ErrInvalidKey = errors.New("invalid key index")
)
