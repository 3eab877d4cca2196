package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
)

func TestHalfBlocks(t *testing.T) {
	assert := assert.New(t)

	var pixel [io.SCREEN_HEIGHT][io.SCREEN_WIDTH]bool
	pixel[0][0] = true
	pixel[1][0] = true
	pixel[0][1] = true
	pixel[1][2] = true
	pixel[io.SCREEN_HEIGHT-1][io.SCREEN_WIDTH-1] = true

	lines := strings.Split(halfBlocks(pixel), "\r\n")
	assert.Equal(io.SCREEN_HEIGHT/2+1, len(lines))
	assert.Equal("█▀▄"+strings.Repeat(" ", io.SCREEN_WIDTH-3), lines[0])
	assert.Equal(strings.Repeat(" ", io.SCREEN_WIDTH), lines[1])
	assert.Equal(strings.Repeat(" ", io.SCREEN_WIDTH-1)+"▄", lines[io.SCREEN_HEIGHT/2-1])
}

func TestDefineFlags(t *testing.T) {
	assert := assert.New(t)

	defines := defineFlags{}
	assert.NoError(defines.Set("SPEED=3"))
	assert.NoError(defines.Set("PLAYER=v4"))
	assert.NoError(defines.Set("EMPTY="))
	assert.ErrorIs(defines.Set("NOVALUE"), ErrDefineSyntax)
	assert.ErrorIs(defines.Set("=3"), ErrDefineSyntax)

	assert.Equal("EMPTY=,PLAYER=v4,SPEED=3", defines.String())
}

func TestWriteImage(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.ch8")

	emu := emulator.NewEmulator()
	assert.ErrorIs(writeImage(path, emu), io.ErrRomEmpty)
	_, err := os.Stat(path)
	assert.True(os.IsNotExist(err))

	emu.Rom = []byte{0x60, 0x05, 0x12, 0x02}
	assert.NoError(writeImage(path, emu))
	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal(emu.Rom, data)
}
