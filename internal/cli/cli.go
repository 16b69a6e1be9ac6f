// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
)

// maxSpeed is the highest accepted instruction rate.
const maxSpeed = 100_000

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(arguments[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(arguments[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <program image>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program image, please pass the program image as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.System = strings.ToLower(opts.System)
	if opts.System != "" {
		system, _ := arch.SystemFromString(opts.System)
		if system != arch.CHIP8System {
			return fmt.Errorf("unsupported system: %s. Valid options: %s", opts.System, arch.CHIP8System)
		}
	}

	if opts.Speed <= 0 || opts.Speed > maxSpeed {
		return fmt.Errorf("invalid instruction rate %d, expected 1 to %d", opts.Speed, maxSpeed)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame limit %d", opts.Frames)
	}
	if opts.Output != "" && !opts.Disasm {
		return fmt.Errorf("output file %s requires -disasm", opts.Output)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input program image")
	flags.StringVar(&opts.Output, "o", "", "name of the output file for the disassembly listing, printed on console if no name given")
	flags.StringVar(&opts.Wav, "wav", "", "name of a .wav file to record the buzzer tones to")
	flags.StringVar(&opts.System, "s", "", "system of the program image, only chip8 is supported")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the program image instead of running it")
	flags.BoolVar(&opts.Strict, "strict", false, "stop execution when an unknown opcode is encountered")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal input and display output")
	flags.IntVar(&opts.Speed, "hz", options.DefaultSpeed, "number of instructions executed per second")
	flags.IntVar(&opts.Frames, "frames", 0, "stop after the given number of published frames, 0 runs until interrupted")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
