// Package cpu implements the CHIP-8 instruction engine.
//
// # Machine State
//
// The CPU owns all mutable machine state:
//   - 16 general purpose 8-bit registers V0-VF, VF doubles as carry, borrow
//     and collision flag
//   - the 16-bit address register I and the program counter PC
//   - a bounded call stack of StackSize return addresses
//   - the delay and sound timers, decremented by the scheduler at 60Hz
//   - the keypad input latch and the 64x32 frame buffer
//
// Memory is provided by the memory package and shared with the loader.
//
// # Execution
//
// Step executes exactly one instruction:
//  1. fetch the big endian opcode word at PC
//  2. Decode splits the word into its fields
//  3. Classify maps the fields to a Kind
//  4. the handler for the Kind mutates the state and advances PC
//
// Instructions that transfer control set PC themselves, all others advance
// it by 2, skips by 4 when their condition holds. LD Vx, K does not advance
// PC until a key is held, so the scheduler keeps executing it.
//
// # Error Policy
//
// Stack overflow and underflow always fail Step with ErrStackOverflow or
// ErrStackUnderflow. Opcodes without a handler are ignored by default and
// leave PC unchanged, with Config.StrictOpcodes set they fail Step with
// ErrIllegalInstruction. All memory accesses wrap around at the end of the
// 4KB address space.
//
// # Concurrency
//
// Step, Load and TickTimers must be called from a single goroutine.
// KeyDown and KeyUp are safe to call from any goroutine.
package cpu
