package cpu

// Kind enumerates the instruction handlers.
type Kind uint8

// Instruction kinds, named after their mnemonic and operands.
const (
	KindUnknown Kind = iota
	KindCls          // 00E0
	KindRet          // 00EE
	KindJp           // 1nnn
	KindCall         // 2nnn
	KindSeByte       // 3xkk
	KindSneByte      // 4xkk
	KindSeReg        // 5xy0
	KindLdByte       // 6xkk
	KindAddByte      // 7xkk
	KindLdReg        // 8xy0
	KindOr           // 8xy1
	KindAnd          // 8xy2
	KindXor          // 8xy3
	KindAddReg       // 8xy4
	KindSub          // 8xy5
	KindShr          // 8xy6
	KindSubn         // 8xy7
	KindShl          // 8xyE
	KindSneReg       // 9xy0
	KindLdI          // Annn
	KindJpV0         // Bnnn
	KindRnd          // Cxkk
	KindDrw          // Dxyn
	KindSkp          // Ex9E
	KindSknp         // ExA1
	KindLdVxDT       // Fx07
	KindLdVxK        // Fx0A
	KindLdDTVx       // Fx15
	KindLdSTVx       // Fx18
	KindAddI         // Fx1E
	KindLdF          // Fx29
	KindLdB          // Fx33
	KindStore        // Fx55
	KindLoad         // Fx65

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown: "unknown",
	KindCls:     "CLS",
	KindRet:     "RET",
	KindJp:      "JP addr",
	KindCall:    "CALL addr",
	KindSeByte:  "SE Vx, byte",
	KindSneByte: "SNE Vx, byte",
	KindSeReg:   "SE Vx, Vy",
	KindLdByte:  "LD Vx, byte",
	KindAddByte: "ADD Vx, byte",
	KindLdReg:   "LD Vx, Vy",
	KindOr:      "OR Vx, Vy",
	KindAnd:     "AND Vx, Vy",
	KindXor:     "XOR Vx, Vy",
	KindAddReg:  "ADD Vx, Vy",
	KindSub:     "SUB Vx, Vy",
	KindShr:     "SHR Vx",
	KindSubn:    "SUBN Vx, Vy",
	KindShl:     "SHL Vx",
	KindSneReg:  "SNE Vx, Vy",
	KindLdI:     "LD I, addr",
	KindJpV0:    "JP V0, addr",
	KindRnd:     "RND Vx, byte",
	KindDrw:     "DRW Vx, Vy, n",
	KindSkp:     "SKP Vx",
	KindSknp:    "SKNP Vx",
	KindLdVxDT:  "LD Vx, DT",
	KindLdVxK:   "LD Vx, K",
	KindLdDTVx:  "LD DT, Vx",
	KindLdSTVx:  "LD ST, Vx",
	KindAddI:    "ADD I, Vx",
	KindLdF:     "LD F, Vx",
	KindLdB:     "LD B, Vx",
	KindStore:   "LD [I], Vx",
	KindLoad:    "LD Vx, [I]",
}

func (k Kind) String() string {
	if k >= kindCount {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// classes maps the opcode classes that need no secondary selector.
var classes = [16]Kind{
	0x1: KindJp,
	0x2: KindCall,
	0x3: KindSeByte,
	0x4: KindSneByte,
	0x5: KindSeReg,
	0x6: KindLdByte,
	0x7: KindAddByte,
	0x9: KindSneReg,
	0xA: KindLdI,
	0xB: KindJpV0,
	0xC: KindRnd,
	0xD: KindDrw,
}

// Classify returns the handler kind for a decoded instruction. Classes 0x0,
// 0xE and 0xF are selected by the low byte, class 0x8 by the low nibble.
// Combinations without a handler return KindUnknown.
func Classify(ins Instruction) Kind {
	switch class := ins.Class(); class {
	case 0x0:
		return classifySystem(ins.Byte)
	case 0x8:
		return classifyArithmetic(ins.N)
	case 0xE:
		return classifyKey(ins.Byte)
	case 0xF:
		return classifySpecial(ins.Byte)
	default:
		return classes[class]
	}
}

func classifySystem(selector uint8) Kind {
	switch selector {
	case 0xE0:
		return KindCls
	case 0xEE:
		return KindRet
	}
	return KindUnknown
}

func classifyArithmetic(selector uint8) Kind {
	switch selector {
	case 0x0:
		return KindLdReg
	case 0x1:
		return KindOr
	case 0x2:
		return KindAnd
	case 0x3:
		return KindXor
	case 0x4:
		return KindAddReg
	case 0x5:
		return KindSub
	case 0x6:
		return KindShr
	case 0x7:
		return KindSubn
	case 0xE:
		return KindShl
	}
	return KindUnknown
}

func classifyKey(selector uint8) Kind {
	switch selector {
	case 0x9E:
		return KindSkp
	case 0xA1:
		return KindSknp
	}
	return KindUnknown
}

func classifySpecial(selector uint8) Kind {
	switch selector {
	case 0x07:
		return KindLdVxDT
	case 0x0A:
		return KindLdVxK
	case 0x15:
		return KindLdDTVx
	case 0x18:
		return KindLdSTVx
	case 0x1E:
		return KindAddI
	case 0x29:
		return KindLdF
	case 0x33:
		return KindLdB
	case 0x55:
		return KindStore
	case 0x65:
		return KindLoad
	}
	return KindUnknown
}
