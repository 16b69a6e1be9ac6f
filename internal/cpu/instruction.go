package cpu

// Instruction is the decoded view of a single fetched opcode word.
type Instruction struct {
	Opcode uint16 // raw 16 bit word
	Addr   uint16 // nnn: lowest 12 bits
	Byte   uint8  // kk: lowest 8 bits
	X      uint8  // second nibble, register index
	Y      uint8  // third nibble, register index
	N      uint8  // lowest nibble
}

// Decode splits an opcode word into its fields. Every word decodes,
// whether an instruction exists for it is decided by Classify.
func Decode(opcode uint16) Instruction {
	return Instruction{
		Opcode: opcode,
		Addr:   opcode & 0x0FFF,
		Byte:   uint8(opcode & 0x00FF),
		X:      uint8((opcode & 0x0F00) >> 8),
		Y:      uint8((opcode & 0x00F0) >> 4),
		N:      uint8(opcode & 0x000F),
	}
}

// Class returns the opcode class, the highest nibble of the word.
func (i Instruction) Class() uint8 {
	return uint8(i.Opcode >> 12)
}
