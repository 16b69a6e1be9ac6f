// Package memory implements the CHIP-8 address space.
//
// The interpreter sees a flat 4KB byte store. The first 80 bytes hold the
// built-in hexadecimal glyph font, programs are loaded at ProgramStart.
package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// CHIP-8 memory layout constants.
//
//	0x000-0x04F: glyph font (16 glyphs of 5 bytes)
//	0x050-0x1FF: reserved interpreter area, zero filled
//	0x200-0xFFF: program space
const (
	// Size is the number of addressable bytes.
	Size = 0x1000

	// AddressMask limits any address to the 12 bit address space.
	AddressMask = Size - 1

	// ProgramStart is the address that program images are loaded to
	// and where execution begins.
	ProgramStart = 0x200

	// MaxImageSize is the largest program image that fits into memory.
	MaxImageSize = Size - ProgramStart
)

var (
	// ErrImageTooLarge is returned when a program image does not fit into program space.
	ErrImageTooLarge = errors.New("program image too large")
	// ErrEmptyImage is returned when a program image contains no bytes.
	ErrEmptyImage = errors.New("program image is empty")
)

// Memory is the byte addressable store of the machine.
type Memory struct {
	data [Size]byte
}

// New returns a memory instance with the glyph font installed.
func New() *Memory {
	m := &Memory{}
	copy(m.data[FontStart:], font[:])
	return m
}

// Read returns the byte at the given address. The address wraps
// around at the end of the address space.
func (m *Memory) Read(address uint16) byte {
	return m.data[address&AddressMask]
}

// Write sets the byte at the given address. The address wraps
// around at the end of the address space.
func (m *Memory) Write(address uint16, value byte) {
	m.data[address&AddressMask] = value
}

// ReadWord returns the big endian 16 bit word at the given address.
func (m *Memory) ReadWord(address uint16) uint16 {
	high := uint16(m.Read(address))
	low := uint16(m.Read(address + 1))
	return high<<8 | low
}

// Slice returns a copy of length bytes starting at the given address,
// following the same wrapping rules as Read.
func (m *Memory) Slice(address uint16, length int) []byte {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = m.Read(address + uint16(i))
	}
	return buf
}

// Load reads a complete program image and copies it to ProgramStart.
// The program space beyond the image is cleared. Memory is not modified
// if the image can not be read or does not fit.
func (m *Memory) Load(r io.Reader) (int, error) {
	// read one byte more than fits to detect oversized images without
	// consuming unbounded input
	image, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return 0, fmt.Errorf("reading program image: %w", err)
	}
	if len(image) == 0 {
		return 0, ErrEmptyImage
	}
	if len(image) > MaxImageSize {
		return 0, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, MaxImageSize)
	}

	program := m.data[ProgramStart:]
	copy(program, image)
	clear(program[len(image):])
	return len(image), nil
}

// LoadBytes is a convenience wrapper around Load for in-memory images.
func (m *Memory) LoadBytes(image []byte) (int, error) {
	return m.Load(bytes.NewReader(image))
}
