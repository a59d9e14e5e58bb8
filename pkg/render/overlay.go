package render

import (
	"image"
	"image/color"

	"github.com/taigrr/cpu3d/pkg/math3d"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// markerSize is the world-space length of each arm of a light marker.
const markerSize = 0.3

// drawLine3D projects a world-space segment with the scene camera and draws
// it into the framebuffer. Segments with an end behind the camera or far
// off screen are skipped.
func (sc *Scene) drawLine3D(a, b math3d.Vec3, c Color) {
	w, h := sc.fb.Width, sc.fb.Height
	pa := sc.camera.Project(a, w, h)
	pb := sc.camera.Project(b, w, h)
	if pa.Z <= 0 || pb.Z <= 0 {
		return
	}
	near := rect{-float64(w), -float64(h), 2 * float64(w), 2 * float64(h)}
	if !near.contains(pa.X, pa.Y) || !near.contains(pb.X, pb.Y) {
		return
	}
	sc.fb.DrawLine(int(pa.X), int(pa.Y), int(pb.X), int(pb.Y), c)
}

// drawPoint draws a three axis cross centered on pos.
func (sc *Scene) drawPoint(pos math3d.Vec3, size float64, c Color) {
	half := size / 2
	for _, axis := range [3]math3d.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
		d := axis.Scale(half)
		sc.drawLine3D(pos.Sub(d), pos.Add(d), c)
	}
}

// drawLightMarkers marks every point light inside the view with a cross in
// the light's diffuse color and a dot at its center.
func (sc *Scene) drawLightMarkers() {
	w, h := sc.fb.Width, sc.fb.Height
	frustum := sc.camera.Frustum(float64(w) / float64(h))
	for _, l := range sc.lights {
		if l.Kind != Point || !frustum.ContainsPoint(l.Position) {
			continue
		}
		d := l.Diffuse.Clamp(0, 1)
		c := RGB(quantize(d.X), quantize(d.Y), quantize(d.Z))
		sc.drawPoint(l.Position, markerSize, c)
		p := sc.camera.Project(l.Position, w, h)
		sc.fb.DrawRect(int(p.X)-1, int(p.Y)-1, 3, 3, c)
	}
}

// DrawText writes s onto img with the baseline of the first line at y,
// using the 7x13 fixed face. Characters outside the image are clipped.
func DrawText(img *image.RGBA, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// TextHeight is the line height of DrawText in pixels.
func TextHeight() int {
	return basicfont.Face7x13.Height
}
