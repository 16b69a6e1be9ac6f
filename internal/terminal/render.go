package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/cpu"
)

const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// halfBlocks are indexed by the upper pixel in bit 1 and the lower in bit 0.
var halfBlocks = [4]string{" ", "▄", "▀", "█"}

// RenderFrame returns the frame as text, packing two display rows into one
// line of half block characters. Lines end with CRLF to work in raw mode.
func RenderFrame(frame *cpu.Frame) string {
	var sb strings.Builder
	sb.Grow((cpu.Width*3 + 2) * cpu.Height / 2)

	for row := 0; row < cpu.Height; row += 2 {
		for column := range cpu.Width {
			index := 0
			if frame[row][column] {
				index |= 2
			}
			if frame[row+1][column] {
				index |= 1
			}
			sb.WriteString(halfBlocks[index])
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}

// Renderer draws frames to a terminal using ANSI escape sequences.
type Renderer struct {
	w       io.Writer
	started bool
}

// NewRenderer returns a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render redraws the terminal with the given frame.
func (r *Renderer) Render(frame cpu.Frame) error {
	prefix := cursorHome
	if !r.started {
		prefix = hideCursor + clearScreen + cursorHome
		r.started = true
	}

	if _, err := io.WriteString(r.w, prefix+RenderFrame(&frame)); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Close restores the cursor if any frame was rendered.
func (r *Renderer) Close() error {
	if !r.started {
		return nil
	}
	if _, err := io.WriteString(r.w, showCursor); err != nil {
		return fmt.Errorf("restoring cursor: %w", err)
	}
	return nil
}
