package cpu

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}
	for key := range uint8(KEY_COUNT) {
		assert.False(kp.Pressed(key))
	}

	kp.Press(0x5)
	kp.Press(0xf)
	assert.True(kp.Pressed(0x5))
	assert.True(kp.Pressed(0xf))
	assert.False(kp.Pressed(0x6))

	kp.Release(0x5)
	assert.False(kp.Pressed(0x5))

	// Out of range keys are never pressed.
	kp.Press(0x10)
	assert.False(kp.Pressed(0x10))

	snap := kp.Snapshot()
	assert.True(snap[0xf])
	assert.False(snap[0x5])

	kp.Reset()
	assert.Equal([KEY_COUNT]bool{}, kp.Snapshot())
}

func TestKeypad_Concurrent(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := range 1000 {
			kp.Set(uint8(n%KEY_COUNT), n%2 == 0)
		}
	}()

	for n := range 1000 {
		_ = kp.Pressed(uint8(n % KEY_COUNT))
	}
	wg.Wait()

	// Last writes: keys 8-15 of the final pass, n = 984..999.
	assert.True(kp.Pressed(0x8))
	assert.False(kp.Pressed(0x7))
}
