package io

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/draw"
)

// Framebuffer is the 64x32 monochrome display.
// Reads outside the grid return false, and writes outside the grid are
// dropped. Safe for concurrent use by the CPU and a renderer.
type Framebuffer struct {
	mutex    sync.Mutex
	pixel    [SCREEN_HEIGHT][SCREEN_WIDTH]bool
	repaints int
	updated  chan struct{}
}

// NewFramebuffer creates a blank framebuffer.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{
		updated: make(chan struct{}, 1),
	}
}

func onGrid(x, y int) bool {
	return x >= 0 && x < SCREEN_WIDTH && y >= 0 && y < SCREEN_HEIGHT
}

// Pixel returns the state of the pixel at (x, y).
func (fb *Framebuffer) Pixel(x, y int) bool {
	if !onGrid(x, y) {
		return false
	}

	fb.mutex.Lock()
	defer fb.mutex.Unlock()

	return fb.pixel[y][x]
}

// SetPixel sets the state of the pixel at (x, y).
func (fb *Framebuffer) SetPixel(x, y int, on bool) {
	if !onGrid(x, y) {
		return
	}

	fb.mutex.Lock()
	defer fb.mutex.Unlock()

	fb.pixel[y][x] = on
}

// Repaint notifies the renderer. Notifications coalesce until the
// renderer receives from Updated.
func (fb *Framebuffer) Repaint() {
	fb.mutex.Lock()
	fb.repaints++
	fb.mutex.Unlock()

	if fb.updated == nil {
		return
	}

	select {
	case fb.updated <- struct{}{}:
	default:
	}
}

// Repaints returns the number of repaint requests since creation.
func (fb *Framebuffer) Repaints() int {
	fb.mutex.Lock()
	defer fb.mutex.Unlock()

	return fb.repaints
}

// Updated returns the repaint notification channel.
func (fb *Framebuffer) Updated() <-chan struct{} {
	return fb.updated
}

// Clear turns off all pixels.
func (fb *Framebuffer) Clear() {
	fb.mutex.Lock()
	fb.pixel = [SCREEN_HEIGHT][SCREEN_WIDTH]bool{}
	fb.mutex.Unlock()

	fb.Repaint()
}

// Snapshot returns a copy of the pixels, indexed [y][x].
func (fb *Framebuffer) Snapshot() (pixel [SCREEN_HEIGHT][SCREEN_WIDTH]bool) {
	fb.mutex.Lock()
	defer fb.mutex.Unlock()

	pixel = fb.pixel
	return
}

// Render returns the framebuffer as text, one line per row.
func (fb *Framebuffer) Render(on, off rune) string {
	pixel := fb.Snapshot()

	var sb strings.Builder
	sb.Grow(SCREEN_HEIGHT * (SCREEN_WIDTH + 1))
	for _, row := range pixel {
		for _, lit := range row {
			if lit {
				sb.WriteRune(on)
			} else {
				sb.WriteRune(off)
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// String returns the framebuffer as text, with '#' for lit pixels.
func (fb *Framebuffer) String() string {
	return fb.Render('#', '.')
}

// Image returns the framebuffer as a grayscale image, each pixel
// scaled to a scale x scale square.
func (fb *Framebuffer) Image(scale int) (img *image.Gray, err error) {
	if scale < 1 {
		err = ErrScale
		return
	}

	pixel := fb.Snapshot()

	src := image.NewGray(image.Rect(0, 0, SCREEN_WIDTH, SCREEN_HEIGHT))
	for y, row := range pixel {
		for x, lit := range row {
			if lit {
				src.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}

	if scale == 1 {
		img = src
		return
	}

	img = image.NewGray(image.Rect(0, 0, SCREEN_WIDTH*scale, SCREEN_HEIGHT*scale))
	draw.NearestNeighbor.Scale(img, img.Bounds(), src, src.Bounds(), draw.Src, nil)

	return
}

// WritePNG writes the scaled framebuffer image as a PNG.
func (fb *Framebuffer) WritePNG(w io.Writer, scale int) (err error) {
	img, err := fb.Image(scale)
	if err != nil {
		return
	}

	err = png.Encode(w, img)
	return
}
