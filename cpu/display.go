package cpu

// Display is the pixel sink the draw instruction composites sprites onto.
//
// Coordinates are passed through unclipped; the implementation decides
// what off-screen pixels mean.
type Display interface {
	// Pixel returns true if the pixel is lit.
	Pixel(x, y int) bool
	// SetPixel lights or clears a pixel.
	SetPixel(x, y int, on bool)
	// Repaint notifies the host that pixels have changed.
	Repaint()
}

// nullDisplay discards all drawing.
type nullDisplay struct{}

func (nullDisplay) Pixel(x, y int) bool        { return false }
func (nullDisplay) SetPixel(x, y int, on bool) {}
func (nullDisplay) Repaint()                   {}
