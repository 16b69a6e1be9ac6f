package cpu

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Frame is a snapshot of the display, indexed as [row][column].
type Frame [Height][Width]bool

// FrameBuffer is the monochrome display of the machine. It tracks whether
// any pixel changed since the last flush.
type FrameBuffer struct {
	pixels Frame
	dirty  bool
}

// Clear turns off all pixels. Clearing a blank display is not a change.
func (f *FrameBuffer) Clear() {
	if f.pixels == (Frame{}) {
		return
	}
	f.pixels = Frame{}
	f.dirty = true
}

// Flip XORs a sprite bit into the pixel at the given row and column, which are
// wrapped around the display edges. It returns true if a set pixel got cleared.
func (f *FrameBuffer) Flip(row, column int, bit bool) bool {
	row %= Height
	column %= Width

	current := f.pixels[row][column]
	if current != bit {
		f.dirty = true
	}
	f.pixels[row][column] = current != bit
	return current && bit
}

// Flush returns a snapshot of the display if it changed since the last
// flush and resets the change flag.
func (f *FrameBuffer) Flush() (Frame, bool) {
	if !f.dirty {
		return Frame{}, false
	}
	f.dirty = false
	return f.pixels, true
}

// Snapshot returns a copy of the display.
func (f *FrameBuffer) Snapshot() Frame {
	return f.pixels
}

// Lit returns the number of set pixels.
func (f *Frame) Lit() int {
	n := 0
	for row := range f {
		for _, on := range f[row] {
			if on {
				n++
			}
		}
	}
	return n
}
