// Package options contains the program options.
package options

import (
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/scheduler"
)

// DefaultSpeed is the default number of instructions executed per second.
const DefaultSpeed = 100

// Positional contains positional arguments.
type Positional struct {
	File string `arg:"positional" usage:"program image to run"`
}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input program image"`
	Output string `flag:"o" usage:"output file of the disassembly listing (default: stdout)"`
	Wav    string `flag:"wav" usage:"record buzzer tones to a .wav file"`
}

// Flags contains behavior options.
type Flags struct {
	System   string `flag:"s" usage:"target system, only chip8 is supported"`
	Disasm   bool   `flag:"disasm" usage:"print a disassembly listing instead of running the program"`
	Strict   bool   `flag:"strict" usage:"stop execution at unknown opcodes"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction"`
	Headless bool   `flag:"headless" usage:"run without terminal input and display"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// Timing contains execution speed options.
type Timing struct {
	Speed  int `flag:"hz" usage:"instructions executed per second" default:"100"`
	Frames int `flag:"frames" usage:"stop after this many published frames, 0 runs until interrupted"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	Timing
}

// CPU returns the instruction engine configuration for the options.
func (p Program) CPU() cpu.Config {
	cfg := cpu.DefaultConfig()
	cfg.StrictOpcodes = p.Strict
	cfg.Trace = p.Trace
	return cfg
}

// cyclesPerMillisecond is the instruction rate above which cycles are batched.
const cyclesPerMillisecond = 1000

// Scheduler returns the scheduler configuration for the options.
func (p Program) Scheduler() scheduler.Config {
	cfg := scheduler.DefaultConfig()
	speed := p.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}

	// the ticker resolution limits the interval to 1ms, faster speeds batch
	// cycles and stretch the interval to keep the requested rate
	perTick := (speed + cyclesPerMillisecond - 1) / cyclesPerMillisecond
	cfg.CyclesPerTick = perTick
	cfg.CycleInterval = time.Second * time.Duration(perTick) / time.Duration(speed)
	return cfg
}
