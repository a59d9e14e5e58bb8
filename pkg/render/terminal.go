package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalFrame adapts a rendered image to an ultraviolet drawable. Each
// terminal row shows two image rows using the upper half block with the
// top pixel as foreground and the bottom pixel as background.
type TerminalFrame struct {
	Image *image.RGBA
}

// Draw implements uv.Drawable.
func (f TerminalFrame) Draw(scr uv.Screen, area uv.Rectangle) {
	if f.Image == nil {
		return
	}
	b := f.Image.Bounds()
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := b.Min.Y + (row-area.Min.Y)*2
		if topY >= b.Max.Y {
			return
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := b.Min.X + col - area.Min.X
			if x >= b.Max.X {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: opaque(f.Image.RGBAAt(x, topY)),
					Bg: opaque(f.Image.RGBAAt(x, topY+1)),
				},
			})
		}
	}
}

func opaque(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}

	// DefaultBackground is the sky blue frames are cleared to.
	DefaultBackground = color.RGBA{66, 176, 245, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
