package cpu

import (
	"fmt"
	"sync/atomic"
)

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16

// Keypad is the input latch of the machine. Keys can be set and released
// from any goroutine while the machine samples them.
type Keypad struct {
	keys [KeyCount]atomic.Bool
}

// Down marks a key as held.
func (k *Keypad) Down(key int) error {
	if err := checkKey(key); err != nil {
		return err
	}
	k.keys[key].Store(true)
	return nil
}

// Up marks a key as released.
func (k *Keypad) Up(key int) error {
	if err := checkKey(key); err != nil {
		return err
	}
	k.keys[key].Store(false)
	return nil
}

// Pressed returns whether the key is held. Only the low nibble of key is used.
func (k *Keypad) Pressed(key uint8) bool {
	return k.keys[key&0x0F].Load()
}

// First returns the lowest index of all held keys.
func (k *Keypad) First() (uint8, bool) {
	for i := range k.keys {
		if k.keys[i].Load() {
			return uint8(i), true
		}
	}
	return 0, false
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	for i := range k.keys {
		k.keys[i].Store(false)
	}
}

func checkKey(key int) error {
	if key < 0 || key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	return nil
}
