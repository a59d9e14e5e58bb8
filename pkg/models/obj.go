package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/cpu3d/pkg/math3d"
)

// ErrMalformedOBJ is wrapped by every OBJ parse error.
var ErrMalformedOBJ = errors.New("malformed obj")

// objCorner is one face corner: 0-based indices into the position, UV and
// normal lists, with -1 for an absent UV or normal.
type objCorner struct {
	v, vt, vn int
}

type objParser struct {
	positions []math3d.Vec3
	uvs       []math3d.Vec2
	normals   []math3d.Vec3

	mesh  *Mesh
	index map[objCorner]int
	line  int
}

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads v, vt, vn and f statements from r. Faces with more than
// three corners are fan-triangulated around their first corner. Other
// statements (groups, materials, smoothing) are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	p := &objParser{
		mesh:  NewMesh("obj"),
		index: make(map[objCorner]int),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := p.statement(fields[0], fields[1:]); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	p.mesh.CalculateBounds()
	return p.mesh, nil
}

func (p *objParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedOBJ, p.line, fmt.Sprintf(format, args...))
}

func (p *objParser) statement(keyword string, args []string) error {
	switch keyword {
	case "v":
		v, err := p.floats(args, 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, math3d.V3(v[0], v[1], v[2]))
	case "vn":
		v, err := p.floats(args, 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, math3d.V3(v[0], v[1], v[2]))
	case "vt":
		v, err := p.floats(args, 2)
		if err != nil {
			return err
		}
		p.uvs = append(p.uvs, math3d.V2(v[0], v[1]))
	case "f":
		return p.face(args)
	}
	return nil
}

// floats parses at least n leading numbers; extra components (w) are ignored.
func (p *objParser) floats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, p.errorf("want %d values, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, p.errorf("bad number %q", args[i])
		}
		out[i] = f
	}
	return out, nil
}

func (p *objParser) face(args []string) error {
	if len(args) < 3 {
		return p.errorf("face needs 3 corners, got %d", len(args))
	}

	ids := make([]int, len(args))
	for i, arg := range args {
		c, err := p.corner(arg)
		if err != nil {
			return err
		}
		ids[i] = p.vertex(c)
	}
	for i := 1; i+1 < len(ids); i++ {
		p.mesh.addFace(ids[0], ids[i], ids[i+1])
	}
	return nil
}

// corner parses v, v/vt, v//vn or v/vt/vn.
func (p *objParser) corner(s string) (objCorner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objCorner{}, p.errorf("bad face corner %q", s)
	}

	c := objCorner{vt: -1, vn: -1}
	var err error
	if c.v, err = p.resolve(parts[0], len(p.positions)); err != nil {
		return c, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = p.resolve(parts[1], len(p.uvs)); err != nil {
			return c, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = p.resolve(parts[2], len(p.normals)); err != nil {
			return c, err
		}
	}
	return c, nil
}

// resolve turns a 1-based or negative (relative) OBJ index into a 0-based one.
func (p *objParser) resolve(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.errorf("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, p.errorf("index %d out of range (%d defined)", i, n)
}

// vertex returns the mesh vertex for c, adding it on first use.
func (p *objParser) vertex(c objCorner) int {
	if id, ok := p.index[c]; ok {
		return id
	}
	var n math3d.Vec3
	var uv math3d.Vec2
	if c.vn >= 0 {
		n = p.normals[c.vn]
	}
	if c.vt >= 0 {
		uv = p.uvs[c.vt]
	}
	id := p.mesh.addVertex(p.positions[c.v], n, uv)
	p.index[c] = id
	return id
}
