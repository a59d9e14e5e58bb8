package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
)

// Texture is an RGBA grid sampled with clamped nearest lookup.
// Row 0 is the bottom of the source image so that v=0 maps to the bottom
// edge, matching OBJ and glTF texture coordinates after a flip.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // row-major, bottom row first
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// SolidTexture returns a 1x1 texture of color c.
func SolidTexture(c Color) *Texture {
	t := NewTexture(1, 1)
	t.Pixels[0] = c
	return t
}

// LoadTexture decodes a PNG, JPEG or BMP file into a texture.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies img into a texture, flipping it vertically.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			r, g, bl, a := img.At(b.Min.X+x, b.Max.Y-1-y).RGBA()
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(bl >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// Sample returns the texel nearest to (u, v). Indices are clamped to the
// valid range, so any UV is safe.
func (t *Texture) Sample(u, v float64) Color {
	x := clampIndex(u*float64(t.Width), t.Width)
	y := clampIndex(v*float64(t.Height), t.Height)
	return t.Pixels[y*t.Width+x]
}

func clampIndex(f float64, n int) int {
	// NaN compares false everywhere and lands on 0.
	if !(f > 0) {
		return 0
	}
	if f >= float64(n-1) {
		return n - 1
	}
	return int(f)
}
