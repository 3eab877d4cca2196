package cpu

import (
	"sync/atomic"
)

const (
	KEY_COUNT = 16 // Keys 0x0 - 0xF.
)

// Keypad is the hex keypad snapshot.
//
// The input source updates keys from its own goroutine while the CPU
// reads them; each key is independently atomic.
type Keypad struct {
	key [KEY_COUNT]atomic.Bool
}

// Set updates the pressed state of a key. Unknown keys are ignored.
func (kp *Keypad) Set(key uint8, pressed bool) {
	if int(key) >= KEY_COUNT {
		return
	}
	kp.key[key].Store(pressed)
}

func (kp *Keypad) Press(key uint8) {
	kp.Set(key, true)
}

func (kp *Keypad) Release(key uint8) {
	kp.Set(key, false)
}

// Pressed returns true if the key is held down.
func (kp *Keypad) Pressed(key uint8) bool {
	if int(key) >= KEY_COUNT {
		return false
	}
	return kp.key[key].Load()
}

// Snapshot returns the pressed state of all keys.
func (kp *Keypad) Snapshot() (keys [KEY_COUNT]bool) {
	for n := range keys {
		keys[n] = kp.key[n].Load()
	}
	return
}

// Reset releases all keys.
func (kp *Keypad) Reset() {
	for n := range kp.key {
		kp.key[n].Store(false)
	}
}
