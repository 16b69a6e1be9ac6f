// Package loader handles program image file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/arch"
)

// Image is a program image read from disk.
type Image struct {
	Path   string
	System arch.System
	Data   []byte
}

// Loader handles loading program image files from disk.
type Loader struct{}

// New creates a new program image loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the program image file at the given path.
func (l *Loader) Load(path string, system arch.System) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading file %s: %w", path, err)
	}

	return &Image{
		Path:   path,
		System: system,
		Data:   data,
	}, nil
}

// LoadFromReader reads a program image, rejecting empty and oversized images.
func (l *Loader) LoadFromReader(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, memory.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program image: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, memory.ErrEmptyImage
	case len(data) > memory.MaxImageSize:
		return nil, fmt.Errorf("%w: exceeds %d bytes", memory.ErrImageTooLarge, memory.MaxImageSize)
	}
	return data, nil
}
