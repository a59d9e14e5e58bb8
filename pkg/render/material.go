package render

import "github.com/taigrr/cpu3d/pkg/math3d"

// Phong holds the ambient, diffuse and specular color triples of a light or
// a surface. Components are in 0..1.
type Phong struct {
	Ambient  math3d.Vec3
	Diffuse  math3d.Vec3
	Specular math3d.Vec3
}

// White returns a Phong set with every component at full intensity.
func White() Phong {
	return Phong{Ambient: math3d.One(), Diffuse: math3d.One(), Specular: math3d.One()}
}

// Material describes how a surface responds to light.
type Material struct {
	Name string
	Phong
	Emissive  math3d.Vec3 // added once per light, unaffected by shadows
	Shininess float64     // Blinn-Phong exponent
}

// Material presets.
var (
	Plastic = Material{
		Name:      "plastic",
		Phong:     White(),
		Shininess: 32,
	}
	Stone = Material{
		Name:      "stone",
		Phong:     Phong{Ambient: math3d.One(), Diffuse: math3d.One(), Specular: grey(16)},
		Shininess: 0.5,
	}
	Metal = Material{
		Name:      "metal",
		Phong:     Phong{Ambient: math3d.One(), Diffuse: math3d.One(), Specular: grey(128)},
		Shininess: 8,
	}
)

// NewMaterial creates a material with uniform ambient and diffuse response
// and the given specular strength.
func NewMaterial(name string, specular, shininess float64) Material {
	return Material{
		Name: name,
		Phong: Phong{
			Ambient:  math3d.One(),
			Diffuse:  math3d.One(),
			Specular: math3d.V3(specular, specular, specular),
		},
		Shininess: shininess,
	}
}

func grey(v uint8) math3d.Vec3 {
	f := float64(v) / 255
	return math3d.V3(f, f, f)
}
