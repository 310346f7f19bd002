package display

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/retroenv/retro24/internal/graphics"
	"golang.org/x/image/draw"
)

// Screenshot writes the frame as PNG file, every pixel enlarged to a square
// of scale by scale pixels.
func Screenshot(path string, frame []byte, scale int) error {
	if scale < 1 {
		scale = 1
	}

	src := Image(frame)
	dst := image.NewRGBA(image.Rect(0, 0, graphics.Width*scale, graphics.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating screenshot file: %w", err)
	}

	if err := png.Encode(file, dst); err != nil {
		_ = file.Close()
		return fmt.Errorf("encoding screenshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing screenshot file: %w", err)
	}
	return nil
}
