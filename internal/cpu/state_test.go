package cpu

import (
	"errors"
	"sync"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestStack(t *testing.T) {
	var s Stack

	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	assert.NoError(t, s.Push(0x200))
	assert.NoError(t, s.Push(0x300))
	assert.Equal(t, 2, s.Len())

	address, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x300), address)
	assert.Equal(t, 1, s.Len())
}

func TestStackCapacity(t *testing.T) {
	var s Stack
	for i := range StackSize {
		assert.NoError(t, s.Push(uint16(i)))
	}

	err := s.Push(0xFFF)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackSize, s.Len())

	address, err := s.Pop()
	assert.NoError(t, err)
	assert.Equal(t, uint16(StackSize-1), address)
}

func TestKeypadFirst(t *testing.T) {
	var k Keypad

	_, ok := k.First()
	assert.False(t, ok)

	assert.NoError(t, k.Down(0xE))
	assert.NoError(t, k.Down(0x3))
	key, ok := k.First()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x3), key)

	k.Reset()
	_, ok = k.First()
	assert.False(t, ok)
}

func TestKeypadConcurrentAccess(t *testing.T) {
	var k Keypad
	var wg sync.WaitGroup

	for key := range KeyCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = k.Down(key)
				_ = k.Up(key)
			}
			_ = k.Down(key)
		}()
	}
	for range 1000 {
		k.First()
	}
	wg.Wait()

	for key := range uint8(KeyCount) {
		assert.True(t, k.Pressed(key))
	}
}

func TestFrameBufferFlip(t *testing.T) {
	var f FrameBuffer

	assert.False(t, f.Flip(0, 0, false))
	assert.False(t, f.dirty)

	assert.False(t, f.Flip(0, 0, true))
	assert.True(t, f.pixels[0][0])
	assert.True(t, f.dirty)

	assert.True(t, f.Flip(Height, Width, true))
	assert.False(t, f.pixels[0][0])
}

func TestFrameBufferFlush(t *testing.T) {
	var f FrameBuffer
	_, ok := f.Flush()
	assert.False(t, ok)

	f.Flip(3, 4, true)
	frame, ok := f.Flush()
	assert.True(t, ok)
	assert.True(t, frame[3][4])
	assert.False(t, f.dirty)

	// the snapshot is a copy
	frame[3][4] = false
	assert.True(t, f.pixels[3][4])
}

func TestFrameBufferClear(t *testing.T) {
	var f FrameBuffer
	f.Clear()
	assert.False(t, f.dirty)

	f.Flip(1, 1, true)
	f.Flush()
	f.Clear()
	assert.True(t, f.dirty)
	assert.False(t, f.pixels[1][1])
}
