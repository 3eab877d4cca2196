package io

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestReadRom(t *testing.T) {
	assert := assert.New(t)

	data, err := ReadRom(bytes.NewReader([]byte{0x60, 0x05}))
	assert.NoError(err)
	assert.Equal([]byte{0x60, 0x05}, data)

	data, err = ReadRom(bytes.NewReader(make([]byte, ROM_LIMIT)))
	assert.NoError(err)
	assert.Equal(ROM_LIMIT, len(data))

	data, err = ReadRom(bytes.NewReader(make([]byte, ROM_LIMIT+1)))
	assert.ErrorIs(err, ErrRomTooLarge)
	assert.Nil(data)

	_, err = ReadRom(bytes.NewReader(nil))
	assert.ErrorIs(err, ErrRomEmpty)

	broken := errors.New("broken")
	_, err = ReadRom(iotest.ErrReader(broken))
	assert.ErrorIs(err, broken)
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for key, value := range Defines() {
		defines[key] = value
	}

	assert.Equal("64", defines["SCREEN_WIDTH"])
	assert.Equal("32", defines["SCREEN_HEIGHT"])
	assert.Equal("0xe00", defines["ROM_LIMIT"])
}
