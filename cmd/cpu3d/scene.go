package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/taigrr/cpu3d/pkg/math3d"
	"github.com/taigrr/cpu3d/pkg/models"
	"github.com/taigrr/cpu3d/pkg/render"
)

const (
	groundSize = 16.0
	// modelSize is the largest extent a loaded model is scaled to.
	modelSize = 3.0
)

// newScene builds the scene for one run: the loaded model (or the demo
// cube) standing on a checkered ground, lit by a sun and a lamp.
func newScene(cfg *config, opts render.Options, model string) (*render.Scene, error) {
	sc, err := render.NewScene(opts)
	if err != nil {
		return nil, err
	}
	sc.Flags = cfg.flags()

	if err := populate(sc, cfg, model); err != nil {
		sc.Close()
		return nil, err
	}
	return sc, nil
}

func populate(sc *render.Scene, cfg *config, model string) error {
	stone := render.Stone
	ground, err := render.NewShape(models.NewPlane(groundSize),
		render.NewCheckerTexture(64, 64, 8, render.RGB(220, 220, 220), render.RGB(90, 110, 90)),
		&stone)
	if err != nil {
		return fmt.Errorf("ground: %w", err)
	}
	sc.AddShape(ground)

	subject, err := loadSubject(cfg, model)
	if err != nil {
		return err
	}
	sc.AddShape(subject)

	sun := render.NewDirectionalLight(math3d.V3(0.6, -0.4, 1), render.Phong{
		Ambient:  math3d.V3(0.15, 0.15, 0.18),
		Diffuse:  math3d.V3(0.75, 0.72, 0.65),
		Specular: math3d.V3(0.5, 0.5, 0.5),
	})
	sc.AddLight(sun)

	lamp := render.NewPointLight(math3d.V3(-2.5, -2, 3), render.Phong{
		Diffuse:  math3d.V3(30, 22, 14),
		Specular: math3d.V3(20, 20, 20),
	})
	sc.AddLight(lamp)

	cam := sc.Camera()
	cam.Position = math3d.V3(0, -8, 3.5)
	cam.FOV = math.Pi / 2.5
	cam.LookAt(math3d.V3(0, 0, modelSize/3))
	return nil
}

// loadSubject returns the shape standing in the middle of the ground.
func loadSubject(cfg *config, path string) (*render.Shape, error) {
	var tex *render.Texture
	if cfg.texture != "" {
		t, err := render.LoadTexture(cfg.texture)
		if err != nil {
			return nil, err
		}
		tex = t
	}

	if path == "" {
		mesh := models.NewCube(2)
		mesh.Transform(math3d.Translate(math3d.V3(0, 0, 1)))
		if tex == nil {
			tex = render.NewCheckerTexture(32, 32, 8, render.RGB(230, 90, 60), render.RGB(250, 200, 80))
		}
		m := render.Metal
		return render.NewShape(mesh, tex, &m)
	}

	mesh, err := loadMesh(path)
	if err != nil {
		return nil, err
	}
	fitMesh(mesh)
	render.Logger().Info("model loaded", "path", path, "vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())

	if tex == nil {
		if img := mesh.BaseMap(); img != nil {
			tex = render.TextureFromImage(img)
		}
	}
	m := render.Plastic
	return render.NewShape(mesh, tex, &m)
}

func loadMesh(path string) (*models.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return models.LoadOBJ(path)
	case ".glb":
		return models.LoadGLB(path)
	case ".gltf":
		return models.LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported format %q (use .obj, .glb or .gltf)", ext)
	}
}

// fitMesh turns a Y-up model Z-up, scales its largest extent to modelSize
// and rests it on the ground at the origin.
func fitMesh(mesh *models.Mesh) {
	mesh.Transform(math3d.RotateX(math.Pi / 2))

	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	scale := 1.0
	if maxDim > 0 {
		scale = modelSize / maxDim
	}
	c := mesh.Center()
	base := math3d.V3(c.X, c.Y, mesh.BoundsMin.Z)
	mesh.Transform(math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(base.Negate())))
}
