package terminal

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrogolib/log"
)

// DefaultHoldDuration is how long a key stays held after its last keystroke.
const DefaultHoldDuration = 150 * time.Millisecond

// ctrlC is received instead of SIGINT while the terminal is in raw mode.
const ctrlC = 0x03

// KeySink receives keypad state changes.
type KeySink interface {
	KeyDown(key int) error
	KeyUp(key int) error
}

// Input translates terminal keystrokes into keypad events. Terminals only
// report key presses, the matching release is sent after the hold duration
// passed without another keystroke of the same key.
type Input struct {
	logger    *log.Logger
	sink      KeySink
	hold      time.Duration
	interrupt func()

	mu       sync.Mutex
	releases [cpu.KeyCount]*time.Timer
	presses  [cpu.KeyCount]uint64 // keystrokes per key, identifies the pending release
}

// NewInput returns an input handler that sends key events to sink. The
// interrupt function is called when Ctrl+C is received.
func NewInput(logger *log.Logger, sink KeySink, hold time.Duration, interrupt func()) *Input {
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &Input{
		logger:    logger,
		sink:      sink,
		hold:      hold,
		interrupt: interrupt,
	}
}

// Read feeds keystrokes from r until it returns EOF or an error.
func (in *Input) Read(r io.Reader) error {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		in.Feed(buf[:n])
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading terminal input: %w", err)
		}
	}
}

// Feed processes keystrokes.
func (in *Input) Feed(data []byte) {
	for _, b := range data {
		if b == ctrlC {
			if in.interrupt != nil {
				in.interrupt()
			}
			continue
		}

		key, ok := MapKey(b)
		if !ok {
			continue
		}
		in.press(key)
	}
}

// Release cancels all pending releases and releases every key.
func (in *Input) Release() {
	in.mu.Lock()
	defer in.mu.Unlock()

	for key, timer := range in.releases {
		if timer == nil {
			continue
		}
		timer.Stop()
		in.releases[key] = nil
		in.release(key)
	}
}

func (in *Input) press(key int) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.sink.KeyDown(key); err != nil {
		in.logger.Error("Pressing key failed", log.Hex("key", key), log.Err(err))
		return
	}

	// a stopped timer can already be running its function, it is recognized
	// as stale by the press count
	if timer := in.releases[key]; timer != nil {
		timer.Stop()
	}
	in.presses[key]++
	press := in.presses[key]
	in.releases[key] = time.AfterFunc(in.hold, func() {
		in.expire(key, press)
	})
}

// expire releases a key once its hold duration passed, unless the key was
// pressed again or released since the timer was started.
func (in *Input) expire(key int, press uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.releases[key] == nil || in.presses[key] != press {
		return
	}
	in.releases[key] = nil
	in.release(key)
}

func (in *Input) release(key int) {
	if err := in.sink.KeyUp(key); err != nil {
		in.logger.Error("Releasing key failed", log.Hex("key", key), log.Err(err))
	}
}
