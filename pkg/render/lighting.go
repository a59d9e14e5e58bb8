package render

import (
	"math"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

// shade returns the Blinn-Phong light intensity reaching point p with
// surface normal n, seen from eye. Components may exceed 1.
func shade(p, n, eye math3d.Vec3, s *Shape, lights []*Light, flags *Flags) math3d.Vec3 {
	if !flags.Lighting || !s.Flags.ReceiveLighting {
		return math3d.One()
	}

	mat := s.Material
	view := eye.Sub(p).Normalize()
	var sum math3d.Vec3
	for _, l := range lights {
		lv := l.Vector(p)
		dir := lv.Normalize()
		half := dir.Add(view).Normalize()

		ambient := l.Ambient.Mul(mat.Ambient)
		diffuse := mat.Diffuse.Mul(l.Diffuse).Scale(math.Max(n.Dot(dir), 0))
		specular := mat.Specular.Mul(l.Specular).Scale(math.Pow(math.Max(n.Dot(half), 0), mat.Shininess))

		shadow := 1.0
		if flags.Shadows {
			if v := l.ShadowValue(p, flags.CubeShadows); v >= 0 {
				shadow = v
			}
		}

		sum = sum.Add(mat.Emissive).
			Add(ambient).
			Add(diffuse.Add(specular).Scale(shadow / l.Attenuation(lv)))
	}
	return sum
}

// toneMap combines a texel with a light intensity into the stored color:
// multiply, clamp to [0, 1], gamma correct, quantize.
func toneMap(texel Color, intensity math3d.Vec3, flags *Flags) Color {
	c := math3d.V3(float64(texel.R), float64(texel.G), float64(texel.B)).
		Div(255).
		Mul(intensity).
		Clamp(0, 1)
	if flags.GammaCorrection {
		c = gammaCorrect(c, flags.Gamma)
	}
	return Color{R: quantize(c.X), G: quantize(c.Y), B: quantize(c.Z), A: 255}
}

func gammaCorrect(c math3d.Vec3, gamma float64) math3d.Vec3 {
	if gamma <= 0 {
		return c
	}
	inv := 1 / gamma
	return math3d.V3(math.Pow(c.X, inv), math.Pow(c.Y, inv), math.Pow(c.Z, inv))
}

// quantize maps [0, 1] to a byte. NaN maps to 0.
func quantize(f float64) uint8 {
	if !(f > 0) {
		return 0
	}
	return uint8(math.Round(math.Min(f, 1) * 255))
}
