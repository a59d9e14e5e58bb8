package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/cpu3d/pkg/math3d"
	"github.com/taigrr/cpu3d/pkg/render"
)

// ErrNoMeshes is returned for a glTF document without triangle geometry.
var ErrNoMeshes = errors.New("gltf: no triangle meshes")

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// CalculateNormals fills normals when the file carries none.
	CalculateNormals bool
	// Textures decodes embedded or referenced base color images.
	Textures bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		Textures:         true,
	}
}

// LoadGLB loads a binary glTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// LoadGLTF loads a JSON glTF (.gltf) file. External buffers are resolved
// relative to the file.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh. All primitives of all
// meshes are merged; node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMeshes)
	}

	mesh.Materials = l.readMaterials(doc, filepath.Dir(path))
	if l.CalculateNormals && !mesh.hasNormals() {
		mesh.CalculateNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Lines and points have nothing to fill.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image.
				v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{Material: material}
			for k := range 3 {
				idx := int(indices[i+k])
				if idx >= len(positions) {
					return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
				}
				f.V[k] = base + idx
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// readMaterials collects base colors and, when enabled, decodes base color
// textures. Images that fail to decode are left nil.
func (l *GLTFLoader) readMaterials(doc *gltf.Document, dir string) []Material {
	mats := make([]Material, 0, len(doc.Materials))
	for _, gm := range doc.Materials {
		mat := Material{Name: gm.Name, BaseColor: [4]float64{1, 1, 1, 1}}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			mat.BaseColor = pbr.BaseColorFactorOrDefault()
			if l.Textures && pbr.BaseColorTexture != nil {
				mat.BaseMap = decodeTexture(doc, pbr.BaseColorTexture.Index, dir)
			}
		}
		mats = append(mats, mat)
	}
	return mats
}

func decodeTexture(doc *gltf.Document, texIdx int, dir string) image.Image {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return nil
	}
	src := *doc.Textures[texIdx].Source
	if src < 0 || src >= len(doc.Images) {
		return nil
	}

	data := imageData(doc, doc.Images[src], dir)
	if len(data) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		render.Logger().Warn("skipping undecodable texture", "image", src, "err", err)
		return nil
	}
	return img
}

// imageData returns the encoded bytes of img from its buffer view or from
// a file next to the document.
func imageData(doc *gltf.Document, img *gltf.Image, dir string) []byte {
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil
		}
		return buf.Data[bv.ByteOffset:end]
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil
		}
		return data
	case img.URI != "":
		data, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			render.Logger().Warn("missing texture file", "uri", img.URI, "err", err)
			return nil
		}
		return data
	}
	return nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}
