package cpu

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/random"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	// RegisterCount is the number of general purpose registers.
	RegisterCount = 16
	// FlagRegister is the index of the carry, borrow and collision flag register VF.
	FlagRegister = 0xF
)

// Config defines the runtime behavior of the CPU.
type Config struct {
	StrictOpcodes bool // fail on opcodes without a handler instead of ignoring them
	Trace         bool // log every executed instruction at debug level
}

// DefaultConfig returns the default CPU configuration.
func DefaultConfig() Config {
	return Config{}
}

// CPU contains the complete execution state of the machine.
type CPU struct {
	V  [RegisterCount]uint8 // general purpose registers
	I  uint16               // address register
	PC uint16               // program counter
	DT uint8                // delay timer
	ST uint8                // sound timer

	stack   Stack
	keypad  Keypad
	display FrameBuffer

	mem    *memory.Memory
	rng    random.Source
	logger *log.Logger
	cfg    Config

	cycles          uint64
	reportedIllegal set.Set[uint16] // addresses of reported unknown opcodes
}

// New returns a CPU that executes from the given memory.
func New(logger *log.Logger, mem *memory.Memory, rng random.Source, cfg Config) *CPU {
	c := &CPU{
		PC:              memory.ProgramStart,
		I:               memory.ProgramStart,
		mem:             mem,
		rng:             rng,
		logger:          logger,
		cfg:             cfg,
		reportedIllegal: set.New[uint16](),
	}
	// the first timer tick always publishes a frame
	c.display.dirty = true
	return c
}

// Load copies a program image into memory, resets PC and I to the program
// start and releases all keys. The state is not modified if loading fails.
func (c *CPU) Load(r io.Reader) error {
	n, err := c.mem.Load(r)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	c.PC = memory.ProgramStart
	c.I = memory.ProgramStart
	c.keypad.Reset()
	clear(c.reportedIllegal)

	c.logger.Debug("Program loaded",
		log.Int("size", n),
		log.Hex("address", c.PC))
	return nil
}

// Step fetches, decodes and executes a single instruction.
func (c *CPU) Step() error {
	pc := c.PC
	opcode := c.mem.ReadWord(pc)
	ins := Decode(opcode)
	kind := Classify(ins)

	if c.cfg.Trace {
		c.logger.Debug("Executing",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode),
			log.String("instruction", disasm.Format(opcode)))
	}

	if kind == KindUnknown {
		return c.unknownOpcode(pc, opcode)
	}

	if err := c.execute(kind, ins); err != nil {
		return fmt.Errorf("executing opcode %04X at $%03X: %w", opcode, pc, err)
	}
	c.cycles++
	return nil
}

// unknownOpcode handles an opcode that has no handler. PC is not advanced.
func (c *CPU) unknownOpcode(pc, opcode uint16) error {
	if c.cfg.StrictOpcodes {
		return fmt.Errorf("%w: %04X at $%03X", ErrIllegalInstruction, opcode, pc)
	}

	if !c.reportedIllegal.Contains(pc) {
		c.reportedIllegal[pc] = struct{}{}
		c.logger.Warn("Ignoring unknown opcode",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode))
	}
	return nil
}

// TickTimers applies one 60Hz timer period. The delay timer is decremented
// while nonzero. A nonzero sound timer is consumed completely and its value
// is returned as the number of 60Hz periods the tone should last.
func (c *CPU) TickTimers() uint8 {
	if c.DT > 0 {
		c.DT--
	}

	tone := c.ST
	c.ST = 0
	return tone
}

// FlushFrame returns a snapshot of the display if it changed since the last flush.
func (c *CPU) FlushFrame() (Frame, bool) {
	return c.display.Flush()
}

// Frame returns a snapshot of the display.
func (c *CPU) Frame() Frame {
	return c.display.Snapshot()
}

// KeyDown marks a keypad key as held. It is safe for concurrent use.
func (c *CPU) KeyDown(key int) error {
	return c.keypad.Down(key)
}

// KeyUp marks a keypad key as released. It is safe for concurrent use.
func (c *CPU) KeyUp(key int) error {
	return c.keypad.Up(key)
}

// Cycles returns the number of executed instructions.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// StackDepth returns the number of return addresses on the call stack.
func (c *CPU) StackDepth() int {
	return c.stack.Len()
}

// Memory returns the memory the CPU executes from.
func (c *CPU) Memory() *memory.Memory {
	return c.mem
}
