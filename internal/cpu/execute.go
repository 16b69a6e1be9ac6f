package cpu

import (
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// opcodeSize is the number of bytes PC advances for each instruction.
const opcodeSize = 2

// spriteWidth is the number of pixels in a sprite row.
const spriteWidth = 8

// execute runs the handler of the given kind.
func (c *CPU) execute(kind Kind, ins Instruction) error {
	switch kind {
	case KindCls:
		c.display.Clear()
	case KindRet:
		return c.ret()
	case KindJp:
		c.PC = ins.Addr
		return nil
	case KindCall:
		return c.call(ins.Addr)
	case KindSeByte:
		c.skipIf(c.V[ins.X] == ins.Byte)
		return nil
	case KindSneByte:
		c.skipIf(c.V[ins.X] != ins.Byte)
		return nil
	case KindSeReg:
		c.skipIf(c.V[ins.X] == c.V[ins.Y])
		return nil
	case KindSneReg:
		c.skipIf(c.V[ins.X] != c.V[ins.Y])
		return nil
	case KindLdByte:
		c.V[ins.X] = ins.Byte
	case KindAddByte:
		c.V[ins.X] += ins.Byte
	case KindLdReg, KindOr, KindAnd, KindXor, KindAddReg, KindSub, KindShr, KindSubn, KindShl:
		c.arithmetic(kind, ins.X, ins.Y)
	case KindLdI:
		c.I = ins.Addr
	case KindJpV0:
		c.PC = uint16(c.V[0]) + ins.Addr
		return nil
	case KindRnd:
		c.V[ins.X] = c.rng.Byte() & ins.Byte
	case KindDrw:
		c.draw(ins)
	case KindSkp:
		c.skipIf(c.keypad.Pressed(c.V[ins.X]))
		return nil
	case KindSknp:
		c.skipIf(!c.keypad.Pressed(c.V[ins.X]))
		return nil
	case KindLdVxK:
		key, ok := c.keypad.First()
		if !ok {
			// repeat this instruction until a key is held
			return nil
		}
		c.V[ins.X] = key
	case KindLdVxDT, KindLdDTVx, KindLdSTVx, KindAddI, KindLdF, KindLdB, KindStore, KindLoad:
		c.special(kind, ins.X)
	}

	c.PC += opcodeSize
	return nil
}

// skipIf advances PC past the next instruction if the condition holds.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.PC += opcodeSize
	}
	c.PC += opcodeSize
}

func (c *CPU) call(address uint16) error {
	if err := c.stack.Push(c.PC); err != nil {
		return err
	}
	c.logger.Debug("Call",
		log.Hex("address", address),
		log.Hex("return", c.PC))
	c.PC = address
	return nil
}

// ret returns to the instruction following the last call.
func (c *CPU) ret() error {
	address, err := c.stack.Pop()
	if err != nil {
		return err
	}
	c.PC = address + opcodeSize
	return nil
}

// arithmetic implements the 8xy. register to register instructions.
func (c *CPU) arithmetic(kind Kind, x, y uint8) {
	vx, vy := c.V[x], c.V[y]
	var flag uint8

	switch kind {
	case KindLdReg:
		c.V[x] = vy
		return
	case KindOr:
		c.V[x] = vx | vy
	case KindAnd:
		c.V[x] = vx & vy
	case KindXor:
		c.V[x] = vx ^ vy
	case KindAddReg:
		sum := uint16(vx) + uint16(vy)
		if sum > 0xFF {
			flag = 1
		}
		c.V[x] = uint8(sum)
	case KindSub:
		if vx >= vy {
			flag = 1
		}
		c.V[x] = vx - vy
	case KindSubn:
		if vy >= vx {
			flag = 1
		}
		c.V[x] = vy - vx
	case KindShr:
		flag = vx & 0x01
		c.V[x] = vx >> 1
	case KindShl:
		flag = vx >> 7
		c.V[x] = vx << 1
	}

	// VF is written after the result, the flag wins when x is F
	c.V[FlagRegister] = flag
}

// special implements the Fx.. timer, address and memory instructions.
func (c *CPU) special(kind Kind, x uint8) {
	switch kind {
	case KindLdVxDT:
		c.V[x] = c.DT
	case KindLdDTVx:
		c.DT = c.V[x]
	case KindLdSTVx:
		c.ST = c.V[x]
	case KindAddI:
		c.I += uint16(c.V[x])
	case KindLdF:
		c.I = memory.GlyphAddress(c.V[x])
	case KindLdB:
		value := c.V[x]
		c.mem.Write(c.I, value/100)
		c.mem.Write(c.I+1, value/10%10)
		c.mem.Write(c.I+2, value%10)
	case KindStore:
		for i := uint16(0); i <= uint16(x); i++ {
			c.mem.Write(c.I+i, c.V[i])
		}
		c.I += uint16(x) + 1
	case KindLoad:
		for i := uint16(0); i <= uint16(x); i++ {
			c.V[i] = c.mem.Read(c.I + i)
		}
		c.I += uint16(x) + 1
	}
}

// draw XORs an n byte sprite from memory at I onto the display at
// position (Vx, Vy). Pixels wrap around the display edges. VF is set
// if any set pixel was cleared.
func (c *CPU) draw(ins Instruction) {
	originX := int(c.V[ins.X])
	originY := int(c.V[ins.Y])
	c.V[FlagRegister] = 0

	sprite := c.mem.Slice(c.I, int(ins.N))
	for row, line := range sprite {
		for column := range spriteWidth {
			bit := line&(0x80>>column) != 0
			if c.display.Flip(originY+row, originX+column, bit) {
				c.V[FlagRegister] = 1
			}
		}
	}
}
