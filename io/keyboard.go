package io

import (
	"log"
	"maps"
	"time"
)

// DEFAULT_HOLD is how long a key stays pressed after its last byte.
// It covers the usual 250-500ms terminal autorepeat delay; with a longer
// delay, a held key is briefly released before the first repeat.
const DEFAULT_HOLD = 500 * time.Millisecond

// KEY_COUNT is the number of keys on the hex keypad.
const KEY_COUNT = 16

// Keypad is the sink for key state changes.
type Keypad interface {
	Set(key uint8, pressed bool)
}

// DefaultLayout maps the left hand block of a QWERTY keyboard onto the
// hex keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var DefaultLayout = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Keyboard turns a stream of key bytes into keypad presses and releases.
// Each byte presses its key until Hold has passed without a repeat.
type Keyboard struct {
	Verbose bool           // If set, logs key changes.
	Keypad  Keypad         // Keypad to drive.
	Layout  map[byte]uint8 // Byte to key mapping, DefaultLayout if nil.
	Hold    time.Duration  // Press duration, DEFAULT_HOLD if zero.
	release [KEY_COUNT]time.Time
}

// NewKeyboard creates a keyboard driving keypad with the default layout.
func NewKeyboard(keypad Keypad) *Keyboard {
	return &Keyboard{
		Keypad: keypad,
		Layout: maps.Clone(DefaultLayout),
		Hold:   DEFAULT_HOLD,
	}
}

func (kb *Keyboard) hold() time.Duration {
	if kb.Hold <= 0 {
		return DEFAULT_HOLD
	}
	return kb.Hold
}

// Lookup returns the key mapped to a byte. Letters match either case.
func (kb *Keyboard) Lookup(ch byte) (key uint8, ok bool) {
	layout := kb.Layout
	if layout == nil {
		layout = DefaultLayout
	}

	key, ok = layout[ch]
	if !ok && ch >= 'A' && ch <= 'Z' {
		key, ok = layout[ch-'A'+'a']
	}

	return
}

// Feed presses the keys for each mapped byte in data, returning the
// unmapped bytes.
func (kb *Keyboard) Feed(data []byte, now time.Time) (unmapped []byte) {
	for _, ch := range data {
		key, ok := kb.Lookup(ch)
		if !ok || key >= KEY_COUNT {
			unmapped = append(unmapped, ch)
			continue
		}

		if kb.release[key].IsZero() && kb.Verbose {
			log.Printf("keyboard: %q press %X", ch, key)
		}
		kb.release[key] = now.Add(kb.hold())
		if kb.Keypad != nil {
			kb.Keypad.Set(key, true)
		}
	}

	return
}

// Expire releases the keys whose hold time has passed.
func (kb *Keyboard) Expire(now time.Time) {
	for key, deadline := range kb.release {
		if deadline.IsZero() || now.Before(deadline) {
			continue
		}

		if kb.Verbose {
			log.Printf("keyboard: release %X", key)
		}
		kb.release[key] = time.Time{}
		if kb.Keypad != nil {
			kb.Keypad.Set(uint8(key), false)
		}
	}
}

// Held returns true if key is currently pressed by the keyboard.
func (kb *Keyboard) Held(key uint8) bool {
	if key >= KEY_COUNT {
		return false
	}
	return !kb.release[key].IsZero()
}
