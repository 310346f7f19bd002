package display

import (
	"image"
	"image/color"

	"github.com/retroenv/retro24/internal/graphics"
)

// Palette colors of the Retro24 screen.
var (
	Black  = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	White  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Blue   = color.RGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF}
	Yellow = color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}
)

// PixelColor maps the brightness and color bits of a pixel to its color.
func PixelColor(brightness, colored bool) color.RGBA {
	switch {
	case colored && brightness:
		return Yellow
	case colored:
		return Blue
	case brightness:
		return White
	default:
		return Black
	}
}

// FrameColor returns the color of the pixel at the zero based position of
// a frame that consists of the brightness plane followed by the color plane.
func FrameColor(frame []byte, x, y int) color.RGBA {
	i := y*graphics.Width + x
	if i+graphics.PlaneSize >= len(frame) {
		return Black
	}
	return PixelColor(frame[i]&1 == 1, frame[graphics.PlaneSize+i]&1 == 1)
}

// Image converts a frame to an RGBA image of the screen size.
func Image(frame []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, graphics.Width, graphics.Height))
	for y := range graphics.Height {
		for x := range graphics.Width {
			img.SetRGBA(x, y, FrameColor(frame, x, y))
		}
	}
	return img
}
