package cpu

import (
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	ins := Decode(0xD12F)

	assert.Equal(t, uint16(0xD12F), ins.Opcode)
	assert.Equal(t, uint16(0x12F), ins.Addr)
	assert.Equal(t, uint8(0x2F), ins.Byte)
	assert.Equal(t, uint8(0x1), ins.X)
	assert.Equal(t, uint8(0x2), ins.Y)
	assert.Equal(t, uint8(0xF), ins.N)
	assert.Equal(t, uint8(0xD), ins.Class())
}

func TestDecodeAllWords(t *testing.T) {
	for w := range 0x10000 {
		opcode := uint16(w)
		ins := Decode(opcode)

		reassembled := uint16(ins.Class())<<12 | uint16(ins.X)<<8 | uint16(ins.Y)<<4 | uint16(ins.N)
		if reassembled != opcode {
			t.Fatalf("decoding %04X reassembled to %04X", opcode, reassembled)
		}
		if ins.Addr != opcode&0x0FFF || uint16(ins.Byte) != opcode&0x00FF {
			t.Fatalf("decoding %04X produced wrong address or byte fields", opcode)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		opcode uint16
		kind   Kind
	}{
		{0x00E0, KindCls},
		{0x00EE, KindRet},
		{0x0123, KindUnknown},
		{0x1ABC, KindJp},
		{0x2ABC, KindCall},
		{0x3A12, KindSeByte},
		{0x4A12, KindSneByte},
		{0x5AB0, KindSeReg},
		{0x6A12, KindLdByte},
		{0x7A12, KindAddByte},
		{0x8AB0, KindLdReg},
		{0x8AB1, KindOr},
		{0x8AB2, KindAnd},
		{0x8AB3, KindXor},
		{0x8AB4, KindAddReg},
		{0x8AB5, KindSub},
		{0x8AB6, KindShr},
		{0x8AB7, KindSubn},
		{0x8ABE, KindShl},
		{0x8AB8, KindUnknown},
		{0x8ABF, KindUnknown},
		{0x9AB0, KindSneReg},
		{0xA123, KindLdI},
		{0xB123, KindJpV0},
		{0xCA0F, KindRnd},
		{0xDAB5, KindDrw},
		{0xEA9E, KindSkp},
		{0xEAA1, KindSknp},
		{0xEA00, KindUnknown},
		{0xFA07, KindLdVxDT},
		{0xFA0A, KindLdVxK},
		{0xFA15, KindLdDTVx},
		{0xFA18, KindLdSTVx},
		{0xFA1E, KindAddI},
		{0xFA29, KindLdF},
		{0xFA33, KindLdB},
		{0xFA55, KindStore},
		{0xFA65, KindLoad},
		{0xFA99, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%04X", tt.opcode), func(t *testing.T) {
			assert.Equal(t, tt.kind, Classify(Decode(tt.opcode)))
		})
	}
}

func TestClassifyCoversAllKinds(t *testing.T) {
	seen := map[Kind]bool{}
	for w := range 0x10000 {
		seen[Classify(Decode(uint16(w)))] = true
	}

	for kind := KindUnknown; kind < kindCount; kind++ {
		assert.True(t, seen[kind], "kind %s is never selected", kind)
	}
	assert.Equal(t, int(kindCount), len(seen))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "CLS", KindCls.String())
	assert.Equal(t, "DRW Vx, Vy, n", KindDrw.String())
	assert.Equal(t, "unknown", Kind(200).String())
}
