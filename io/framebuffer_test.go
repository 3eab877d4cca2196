package io

import (
	"bytes"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFramebuffer(t *testing.T) {
	assert := assert.New(t)

	fb := NewFramebuffer()

	assert.False(fb.Pixel(0, 0))
	fb.SetPixel(0, 0, true)
	fb.SetPixel(SCREEN_WIDTH-1, SCREEN_HEIGHT-1, true)
	assert.True(fb.Pixel(0, 0))
	assert.True(fb.Pixel(SCREEN_WIDTH-1, SCREEN_HEIGHT-1))

	fb.SetPixel(0, 0, false)
	assert.False(fb.Pixel(0, 0))
}

func TestFramebufferOffGrid(t *testing.T) {
	assert := assert.New(t)

	fb := NewFramebuffer()

	table := [](struct {
		x, y int
	}){
		{-1, 0},
		{0, -1},
		{SCREEN_WIDTH, 0},
		{0, SCREEN_HEIGHT},
		{SCREEN_WIDTH + 8, SCREEN_HEIGHT + 15},
	}

	for _, entry := range table {
		fb.SetPixel(entry.x, entry.y, true)
		assert.False(fb.Pixel(entry.x, entry.y), "%v", entry)
	}

	if diff := cmp.Diff([SCREEN_HEIGHT][SCREEN_WIDTH]bool{}, fb.Snapshot()); diff != "" {
		t.Errorf("off grid writes: (-want, +got)\n%s", diff)
	}
}

func TestFramebufferRepaint(t *testing.T) {
	assert := assert.New(t)

	fb := NewFramebuffer()

	select {
	case <-fb.Updated():
		t.Fatal("unexpected update")
	default:
	}

	// Notifications coalesce.
	fb.Repaint()
	fb.Repaint()
	fb.Repaint()
	assert.Equal(3, fb.Repaints())

	count := 0
	for done := false; !done; {
		select {
		case <-fb.Updated():
			count++
		default:
			done = true
		}
	}
	assert.Equal(1, count)

	// A zero Framebuffer never blocks.
	var zero Framebuffer
	zero.Repaint()
	assert.Equal(1, zero.Repaints())
}

func TestFramebufferClear(t *testing.T) {
	assert := assert.New(t)

	fb := NewFramebuffer()
	fb.SetPixel(3, 4, true)
	fb.Clear()

	assert.False(fb.Pixel(3, 4))
	assert.Equal(1, fb.Repaints())
}

func TestFramebufferString(t *testing.T) {
	assert := assert.New(t)

	fb := NewFramebuffer()
	fb.SetPixel(0, 0, true)
	fb.SetPixel(2, 1, true)

	lines := strings.Split(fb.String(), "\n")
	assert.Equal(SCREEN_HEIGHT+1, len(lines))
	assert.Equal("#"+strings.Repeat(".", SCREEN_WIDTH-1), lines[0])
	assert.Equal("..#"+strings.Repeat(".", SCREEN_WIDTH-3), lines[1])
	assert.Equal(strings.Repeat(".", SCREEN_WIDTH), lines[2])
	assert.Equal("", lines[SCREEN_HEIGHT])

	rendered := strings.Split(fb.Render('█', ' '), "\n")
	assert.Equal("█"+strings.Repeat(" ", SCREEN_WIDTH-1), rendered[0])
}

func TestFramebufferImage(t *testing.T) {
	assert := assert.New(t)

	fb := NewFramebuffer()
	fb.SetPixel(1, 2, true)

	_, err := fb.Image(0)
	assert.ErrorIs(err, ErrScale)

	img, err := fb.Image(1)
	assert.NoError(err)
	assert.Equal(SCREEN_WIDTH, img.Bounds().Dx())
	assert.Equal(uint8(0xff), img.GrayAt(1, 2).Y)
	assert.Equal(uint8(0), img.GrayAt(2, 2).Y)

	img, err = fb.Image(4)
	assert.NoError(err)
	assert.Equal(SCREEN_WIDTH*4, img.Bounds().Dx())
	assert.Equal(SCREEN_HEIGHT*4, img.Bounds().Dy())
	for y := range 4 {
		for x := range 4 {
			assert.Equal(uint8(0xff), img.GrayAt(4+x, 8+y).Y)
		}
	}
	assert.Equal(uint8(0), img.GrayAt(3, 8).Y)
	assert.Equal(uint8(0), img.GrayAt(8, 8).Y)
	assert.Equal(uint8(0), img.GrayAt(4, 12).Y)

	var buf bytes.Buffer
	assert.NoError(fb.WritePNG(&buf, 2))
	decoded, err := png.Decode(&buf)
	if assert.NoError(err) {
		assert.Equal(SCREEN_WIDTH*2, decoded.Bounds().Dx())
	}
}

func TestFramebufferConcurrent(t *testing.T) {
	assert := assert.New(t)

	fb := NewFramebuffer()

	var wg sync.WaitGroup
	for y := range SCREEN_HEIGHT {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := range SCREEN_WIDTH {
				fb.SetPixel(x, y, true)
				fb.Repaint()
			}
		}()
	}
	wg.Wait()

	assert.Equal(SCREEN_WIDTH*SCREEN_HEIGHT, fb.Repaints())
	assert.Equal(strings.Repeat(strings.Repeat("#", SCREEN_WIDTH)+"\n", SCREEN_HEIGHT), fb.String())
}
