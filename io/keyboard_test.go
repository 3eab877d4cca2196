package io

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testKeypad struct {
	key [KEY_COUNT]bool
}

func (tk *testKeypad) Set(key uint8, pressed bool) {
	tk.key[key] = pressed
}

func TestKeyboardLayout(t *testing.T) {
	assert := assert.New(t)

	kb := NewKeyboard(nil)

	seen := map[uint8]bool{}
	for ch := range kb.Layout {
		key, ok := kb.Lookup(ch)
		assert.True(ok)
		seen[key] = true
	}
	assert.Equal(KEY_COUNT, len(seen))

	key, ok := kb.Lookup('V')
	assert.True(ok)
	assert.Equal(uint8(0xF), key)

	_, ok = kb.Lookup('p')
	assert.False(ok)
}

func TestKeyboardFeed(t *testing.T) {
	assert := assert.New(t)

	keypad := &testKeypad{}
	kb := NewKeyboard(keypad)
	kb.Hold = 100 * time.Millisecond

	now := time.Unix(1000, 0)

	unmapped := kb.Feed([]byte("x4?q"), now)
	assert.Equal([]byte("?"), unmapped)
	assert.True(keypad.key[0x0])
	assert.True(keypad.key[0xC])
	assert.True(keypad.key[0x4])
	assert.True(kb.Held(0x0))
	assert.False(kb.Held(0x1))
	assert.False(kb.Held(0x10))

	// Repeats extend the hold.
	kb.Feed([]byte("x"), now.Add(80*time.Millisecond))

	kb.Expire(now.Add(99 * time.Millisecond))
	assert.True(keypad.key[0xC])

	kb.Expire(now.Add(100 * time.Millisecond))
	assert.False(keypad.key[0xC])
	assert.False(keypad.key[0x4])
	assert.True(keypad.key[0x0])
	assert.False(kb.Held(0xC))

	kb.Expire(now.Add(180 * time.Millisecond))
	assert.False(keypad.key[0x0])
}

func TestKeyboardDefaults(t *testing.T) {
	assert := assert.New(t)

	keypad := &testKeypad{}
	kb := &Keyboard{Keypad: keypad}

	// Outlasts a typical autorepeat delay.
	assert.GreaterOrEqual(DEFAULT_HOLD, 500*time.Millisecond)
	assert.Equal(DEFAULT_HOLD, NewKeyboard(keypad).Hold)

	now := time.Unix(0, 0)
	kb.Feed([]byte("1"), now)
	assert.True(keypad.key[0x1])

	kb.Expire(now.Add(DEFAULT_HOLD - time.Millisecond))
	assert.True(keypad.key[0x1])
	kb.Expire(now.Add(DEFAULT_HOLD))
	assert.False(keypad.key[0x1])
}
