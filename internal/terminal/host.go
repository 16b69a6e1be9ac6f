// Package terminal provides the interactive text terminal host: raw
// keyboard input mapped to the keypad and frame output as text.
package terminal

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/cpu"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when the input is not an interactive terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

// Host switches a terminal into raw mode for the duration of a run.
type Host struct {
	fd       int
	oldState *term.State
}

// NewHost returns a host for the terminal connected to the given file.
func NewHost(f *os.File) *Host {
	return &Host{fd: int(f.Fd())}
}

// Start puts the terminal into raw mode, disabling echo and line buffering.
func (h *Host) Start() error {
	if !term.IsTerminal(h.fd) {
		return ErrNotTerminal
	}

	state, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	h.oldState = state
	return nil
}

// Stop restores the terminal state saved by Start.
func (h *Host) Stop() error {
	if h.oldState == nil {
		return nil
	}
	state := h.oldState
	h.oldState = nil
	if err := term.Restore(h.fd, state); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}

// FitsDisplay returns whether a terminal of the given file is large enough
// to show a rendered frame.
func FitsDisplay(f *os.File) bool {
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return false
	}
	return width >= cpu.Width && height >= cpu.Height/2
}
