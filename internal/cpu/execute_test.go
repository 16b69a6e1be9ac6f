package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/random"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestLoadAndAddImmediate(t *testing.T) {
	for x := range uint8(RegisterCount) {
		for _, value := range []uint8{0x00, 0x01, 0x7F, 0x80, 0xFE, 0xFF} {
			loadOp := 0x6000 | uint16(x)<<8 | uint16(value)
			addOp := 0x7000 | uint16(x)<<8 | uint16(value)
			c := newTestCPU(t, loadOp, addOp)
			c.V[FlagRegister] = 0x55

			step(t, c, 1)
			assert.Equal(t, value, c.V[x])

			step(t, c, 1)
			assert.Equal(t, uint8((int(value)*2)%256), c.V[x])
			if x != FlagRegister {
				// add immediate has no flag side effect
				assert.Equal(t, uint8(0x55), c.V[FlagRegister])
			}
			assert.Equal(t, uint16(0x204), c.PC)
		}
	}
}

func TestLoadRegister(t *testing.T) {
	c := newTestCPU(t, 0x8120)
	c.V[2] = 0x42
	c.V[FlagRegister] = 0x07

	step(t, c, 1)
	assert.Equal(t, uint8(0x42), c.V[1])
	assert.Equal(t, uint8(0x07), c.V[FlagRegister])
}

func TestBitwiseClearsFlag(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected uint8
	}{
		{"or", 0x8011, 0b1110},
		{"and", 0x8012, 0b1000},
		{"xor", 0x8013, 0b0110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, flag := range []uint8{0, 1, 0xFF} {
				c := newTestCPU(t, tt.opcode)
				c.V[0] = 0b1100
				c.V[1] = 0b1010
				c.V[FlagRegister] = flag

				step(t, c, 1)
				assert.Equal(t, tt.expected, c.V[0])
				assert.Equal(t, uint8(0), c.V[FlagRegister])
			}
		})
	}
}

func TestArithmeticFlags(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		x, y   uint8
		result uint8
		flag   uint8
	}{
		{"add with carry", 0x8014, 0xFF, 0x01, 0x00, 1},
		{"add without carry", 0x8014, 0x01, 0x01, 0x02, 0},
		{"add to exactly 255", 0x8014, 0xFE, 0x01, 0xFF, 0},
		{"sub without borrow", 0x8015, 0x05, 0x03, 0x02, 1},
		{"sub with borrow", 0x8015, 0x03, 0x05, 0xFE, 0},
		{"sub equal operands", 0x8015, 0x07, 0x07, 0x00, 1},
		{"subn without borrow", 0x8017, 0x03, 0x05, 0x02, 1},
		{"subn with borrow", 0x8017, 0x05, 0x03, 0xFE, 0},
		{"subn equal operands", 0x8017, 0x07, 0x07, 0x00, 1},
		{"shr odd", 0x8016, 0x05, 0xAA, 0x02, 1},
		{"shr even", 0x8016, 0x04, 0xAA, 0x02, 0},
		{"shl high bit", 0x801E, 0x81, 0xAA, 0x02, 1},
		{"shl no high bit", 0x801E, 0x41, 0xAA, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU(t, tt.opcode)
			c.V[0] = tt.x
			c.V[1] = tt.y

			step(t, c, 1)
			assert.Equal(t, tt.result, c.V[0])
			assert.Equal(t, tt.flag, c.V[FlagRegister])
			assert.Equal(t, tt.y, c.V[1])
			assert.Equal(t, uint16(0x202), c.PC)
		})
	}
}

func TestFlagRegisterAsDestination(t *testing.T) {
	c := newTestCPU(t, 0x8F14)
	c.V[FlagRegister] = 0xFF
	c.V[1] = 0x02

	step(t, c, 1)
	assert.Equal(t, uint8(1), c.V[FlagRegister])
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		skip   bool
	}{
		{"se byte equal", 0x3012, 0x12, 0, true},
		{"se byte different", 0x3012, 0x13, 0, false},
		{"sne byte equal", 0x4012, 0x12, 0, false},
		{"sne byte different", 0x4012, 0x13, 0, true},
		{"se register equal", 0x5010, 0x34, 0x34, true},
		{"se register different", 0x5010, 0x34, 0x35, false},
		{"sne register equal", 0x9010, 0x34, 0x34, false},
		{"sne register different", 0x9010, 0x34, 0x35, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU(t, tt.opcode)
			c.V[0] = tt.vx
			c.V[1] = tt.vy

			step(t, c, 1)
			if tt.skip {
				assert.Equal(t, uint16(0x204), c.PC)
			} else {
				assert.Equal(t, uint16(0x202), c.PC)
			}
		})
	}
}

func TestJumps(t *testing.T) {
	t.Run("jump", func(t *testing.T) {
		c := newTestCPU(t, 0x1ABC)
		step(t, c, 1)
		assert.Equal(t, uint16(0xABC), c.PC)
	})

	t.Run("jump indexed", func(t *testing.T) {
		c := newTestCPU(t, 0xB300)
		c.V[0] = 0x24
		step(t, c, 1)
		assert.Equal(t, uint16(0x324), c.PC)
	})
}

func TestCallAndReturn(t *testing.T) {
	c := newTestCPU(t,
		0x2206, // 200: call 206
		0x6A01, // 202: VA = 1
		0x1204, // 204: loop
		0x00EE, // 206: ret
	)

	step(t, c, 1)
	assert.Equal(t, uint16(0x206), c.PC)
	assert.Equal(t, 1, c.StackDepth())

	step(t, c, 1)
	assert.Equal(t, uint16(0x202), c.PC)
	assert.Equal(t, 0, c.StackDepth())

	step(t, c, 1)
	assert.Equal(t, uint8(1), c.V[0xA])
}

func TestStackOverflow(t *testing.T) {
	// call self forever
	c := newTestCPU(t, 0x2200)

	step(t, c, StackSize)
	assert.Equal(t, StackSize, c.StackDepth())

	err := c.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackSize, c.StackDepth())
	assert.Equal(t, uint16(0x200), c.PC)
}

func TestStackUnderflow(t *testing.T) {
	c := newTestCPU(t, 0x00EE)

	err := c.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), c.PC)
}

func TestSetAddressRegister(t *testing.T) {
	c := newTestCPU(t, 0xA123, 0xF01E)
	c.V[0] = 0x10

	step(t, c, 1)
	assert.Equal(t, uint16(0x123), c.I)

	step(t, c, 1)
	assert.Equal(t, uint16(0x133), c.I)
}

func TestAddAddressRegisterIsNotClamped(t *testing.T) {
	c := newTestCPU(t, 0xAFFF, 0xF01E, 0xF065)
	c.V[0] = 0x02
	c.Memory().Write(0x001, 0x99)

	step(t, c, 2)
	assert.Equal(t, uint16(0x1001), c.I)

	// memory accesses wrap around the address space
	step(t, c, 1)
	assert.Equal(t, uint8(0x99), c.V[0])
}

func TestRandom(t *testing.T) {
	c := New(log.NewTestLogger(t), memory.New(), random.NewSequence(0xAB, 0xFF), DefaultConfig())
	_, err := c.Memory().LoadBytes([]byte{0xC0, 0x0F, 0xC1, 0xF0})
	assert.NoError(t, err)

	step(t, c, 2)
	assert.Equal(t, uint8(0x0B), c.V[0])
	assert.Equal(t, uint8(0xF0), c.V[1])
}

func TestTimerInstructions(t *testing.T) {
	c := newTestCPU(t, 0xF015, 0xF118, 0xF207)
	c.V[0] = 0x20
	c.V[1] = 0x30

	step(t, c, 2)
	assert.Equal(t, uint8(0x20), c.DT)
	assert.Equal(t, uint8(0x30), c.ST)

	c.TickTimers()
	step(t, c, 1)
	assert.Equal(t, uint8(0x1F), c.V[2])
}

func TestFontAddress(t *testing.T) {
	c := newTestCPU(t, 0xF029, 0xF129)
	c.V[0] = 0x0A
	c.V[1] = 0x0F

	step(t, c, 1)
	assert.Equal(t, uint16(0x32), c.I)
	step(t, c, 1)
	assert.Equal(t, uint16(0x4B), c.I)
}

func TestStoreBCD(t *testing.T) {
	tests := []struct {
		value                 uint8
		hundreds, tens, units uint8
	}{
		{0, 0, 0, 0},
		{7, 0, 0, 7},
		{42, 0, 4, 2},
		{109, 1, 0, 9},
		{255, 2, 5, 5},
	}

	for _, tt := range tests {
		c := newTestCPU(t, 0xA300, 0xF533)
		c.V[5] = tt.value

		step(t, c, 2)
		mem := c.Memory()
		assert.Equal(t, tt.hundreds, mem.Read(0x300))
		assert.Equal(t, tt.tens, mem.Read(0x301))
		assert.Equal(t, tt.units, mem.Read(0x302))
		assert.Equal(t, uint16(0x300), c.I)
	}
}

func TestRegisterBlockRoundTrip(t *testing.T) {
	c := newTestCPU(t, 0xA400, 0xF755, 0xA400, 0xF765)
	for i := range c.V {
		c.V[i] = uint8(0x10 + i)
	}
	original := c.V

	step(t, c, 2)
	assert.Equal(t, uint16(0x408), c.I)
	mem := c.Memory()
	for i := range 8 {
		assert.Equal(t, uint8(0x10+i), mem.Read(0x400+uint16(i)))
	}
	// registers beyond X are not stored
	assert.Equal(t, byte(0), mem.Read(0x408))

	c.V = [RegisterCount]uint8{}
	step(t, c, 2)
	assert.Equal(t, uint16(0x408), c.I)
	for i := range 8 {
		assert.Equal(t, original[i], c.V[i])
	}
	for i := 8; i < RegisterCount; i++ {
		assert.Equal(t, uint8(0), c.V[i])
	}
}

func TestWaitForKey(t *testing.T) {
	c := newTestCPU(t, 0xF30A)

	for range 10 {
		step(t, c, 1)
		assert.Equal(t, uint16(0x200), c.PC)
	}

	assert.NoError(t, c.KeyDown(0xC))
	assert.NoError(t, c.KeyDown(0x5))
	step(t, c, 1)
	assert.Equal(t, uint16(0x202), c.PC)
	assert.Equal(t, uint8(0x5), c.V[3])
}

func TestSkipOnKey(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		pressed bool
		skip    bool
	}{
		{"skp held", 0xE09E, true, true},
		{"skp released", 0xE09E, false, false},
		{"sknp held", 0xE0A1, true, false},
		{"sknp released", 0xE0A1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU(t, tt.opcode)
			c.V[0] = 0x7
			if tt.pressed {
				assert.NoError(t, c.KeyDown(0x7))
			}

			step(t, c, 1)
			if tt.skip {
				assert.Equal(t, uint16(0x204), c.PC)
			} else {
				assert.Equal(t, uint16(0x202), c.PC)
			}
		})
	}
}

func TestSkipOnKeyMasksIndex(t *testing.T) {
	c := newTestCPU(t, 0xE09E)
	c.V[0] = 0x13
	assert.NoError(t, c.KeyDown(0x3))

	step(t, c, 1)
	assert.Equal(t, uint16(0x204), c.PC)
}
