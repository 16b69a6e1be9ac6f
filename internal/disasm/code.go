package disasm

import (
	"fmt"
	"io"
	"slices"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	skipMarker  = "  (conditional)"
)

// Listing writes a linear listing of a program image that is loaded at the
// given base address. Every word is decoded as an instruction, jump and call
// destinations inside the image get labels. Instructions that a preceding
// skip instruction can jump over are marked as conditional.
func Listing(w io.Writer, image []byte, base uint16) error {
	labels := collectDestinations(image, base)
	skippable := false

	for i := 0; i+1 < len(image); i += OpcodeSize {
		address := base + uint16(i)
		opcode := uint16(image[i])<<8 | uint16(image[i+1])

		if name, ok := labels[address]; ok {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		code := Format(opcode)
		if op, ok := Lookup(opcode); ok && isBranch(op.Instruction, opcode) {
			if name, ok := labels[opcode&0x0FFF]; ok {
				code = fmt.Sprintf("%s %s", op.Instruction.Name, name)
			}
		}

		marker := ""
		if skippable {
			marker = skipMarker
		}
		if _, err := fmt.Fprintf(w, "  %-24s ; $%04X  %02X %02X%s\n", code, address, image[i], image[i+1], marker); err != nil {
			return fmt.Errorf("writing instruction: %w", err)
		}
		skippable = IsSkip(opcode)
	}

	// trailing odd byte
	if len(image)%OpcodeSize != 0 {
		last := len(image) - 1
		if _, err := fmt.Fprintf(w, "  %-24s ; $%04X\n", fmt.Sprintf(".byte $%02X", image[last]), base+uint16(last)); err != nil {
			return fmt.Errorf("writing data: %w", err)
		}
	}
	return nil
}

// collectDestinations returns the label names of all jump and call
// destinations that are inside of the image.
func collectDestinations(image []byte, base uint16) map[uint16]string {
	calls := set.New[uint16]()
	jumps := set.New[uint16]()
	end := base + uint16(len(image))

	for i := 0; i+1 < len(image); i += OpcodeSize {
		opcode := uint16(image[i])<<8 | uint16(image[i+1])
		op, ok := Lookup(opcode)
		if !ok || !isBranch(op.Instruction, opcode) {
			continue
		}

		target := opcode & 0x0FFF
		if target < base || target >= end {
			continue
		}
		if op.Instruction == chip8.CallInst {
			calls[target] = struct{}{}
		} else {
			jumps[target] = struct{}{}
		}
	}

	destinations := make([]uint16, 0, len(calls)+len(jumps))
	for address := range calls {
		destinations = append(destinations, address)
	}
	for address := range jumps {
		if !calls.Contains(address) {
			destinations = append(destinations, address)
		}
	}
	slices.Sort(destinations)

	labels := make(map[uint16]string, len(destinations))
	for _, address := range destinations {
		if calls.Contains(address) {
			labels[address] = fmt.Sprintf(funcNaming, address)
		} else {
			labels[address] = fmt.Sprintf(labelNaming, address)
		}
	}
	return labels
}

// isBranch returns whether the instruction transfers control to an absolute
// address literal. JP V0, addr is excluded as its destination depends on V0.
func isBranch(ins *chip8.Instruction, opcode uint16) bool {
	switch ins {
	case chip8.CallInst:
		return true
	case chip8.JpInst:
		return opcode&0xF000 == 0x1000
	}
	return false
}

// IsSkip returns whether the opcode conditionally skips the next instruction.
func IsSkip(opcode uint16) bool {
	op, ok := Lookup(opcode)
	if !ok {
		return false
	}
	return chip8.SkipInstructions.Contains(op.Instruction.Name)
}
