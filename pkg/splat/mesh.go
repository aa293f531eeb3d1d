// Package splat converts triangulated surface meshes into point-based
// splat clouds: fixed-size, reproducibly sampled point sets where each
// point carries position, anisotropic scale, color and a surface-aligned
// orientation, serialized as flat 32-byte records.
package splat

import (
	"errors"

	gomath "github.com/Faultbox/splatc/pkg/math"
)

// Aggregation and sampling errors.
var (
	ErrEmptyMesh = errors.New("no primitive contributed any vertices")
	ErrNoFaces   = errors.New("aggregated mesh has no faces")
	ErrZeroArea  = errors.New("total surface area is zero")
)

// DefaultBaseColor is the flat color for primitives that carry neither
// vertex colors nor a material base color: mid-gray, opaque.
var DefaultBaseColor = [4]float32{180.0 / 255.0, 180.0 / 255.0, 180.0 / 255.0, 1}

// Primitive is one decoded chunk of input geometry, as produced by an
// asset decoder. Positions are required; everything else is optional.
type Primitive struct {
	Positions [][3]float32

	// Normals, when present, has one unit normal per position.
	Normals [][3]float32

	// Colors is a flat array with ColorSize components per vertex,
	// values in [0,1]. ColorSize is 3 (RGB) or 4 (RGBA).
	Colors    []float32
	ColorSize int

	// Indices triangulate the primitive. When empty, vertices are
	// consumed as sequential triangles.
	Indices []uint32

	// BaseColor is the material base color factor (RGBA in [0,1]),
	// applied to every vertex when the primitive has no vertex colors.
	BaseColor *[4]float32
}

// Mesh is the aggregate of all input primitives: one global vertex list
// and one global face list, stored as parallel arrays. A zero vector in
// Normals marks a vertex without a normal; valid unit normals are never
// zero. The mesh is built once and read-only afterwards.
type Mesh struct {
	Positions []gomath.Vec3
	Normals   []gomath.Vec3
	Colors    [][4]float32
	Faces     [][3]uint32
	Bounds    Bounds
}

// Bounds is the axis-aligned extent of the aggregated mesh.
type Bounds struct {
	Min, Max, Center, Extent gomath.Vec3
}

// MaxExtent returns the largest axis of the bounding box.
func (b Bounds) MaxExtent() float32 {
	return b.Extent.MaxComponent()
}

// Aggregate merges primitives into a single indexed mesh. Face indices
// of each primitive are offset by the running vertex count so they stay
// valid against the unified vertex list. Primitives without positions
// are skipped. Returns ErrEmptyMesh when nothing contributes vertices
// and ErrNoFaces when no primitive yields a complete triangle.
func Aggregate(prims []Primitive) (*Mesh, error) {
	m := &Mesh{}

	for i := range prims {
		appendPrimitive(m, &prims[i])
	}

	if len(m.Positions) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(m.Faces) == 0 {
		return nil, ErrNoFaces
	}

	m.Bounds = computeBounds(m.Positions)
	return m, nil
}

func appendPrimitive(m *Mesh, p *Primitive) {
	if len(p.Positions) == 0 {
		return
	}

	base := uint32(len(m.Positions))
	count := len(p.Positions)

	for _, pos := range p.Positions {
		m.Positions = append(m.Positions, gomath.Vec3{X: pos[0], Y: pos[1], Z: pos[2]})
	}

	for i := 0; i < count; i++ {
		if i < len(p.Normals) {
			n := p.Normals[i]
			m.Normals = append(m.Normals, gomath.Vec3{X: n[0], Y: n[1], Z: n[2]})
		} else {
			m.Normals = append(m.Normals, gomath.Vec3{})
		}
	}

	flat := p.BaseColor
	if flat == nil {
		c := DefaultBaseColor
		flat = &c
	}
	for i := 0; i < count; i++ {
		m.Colors = append(m.Colors, vertexColor(p, i, *flat))
	}

	if len(p.Indices) > 0 {
		for i := 0; i+2 < len(p.Indices); i += 3 {
			i0, i1, i2 := p.Indices[i], p.Indices[i+1], p.Indices[i+2]
			if int(i0) >= count || int(i1) >= count || int(i2) >= count {
				continue
			}
			m.Faces = append(m.Faces, [3]uint32{base + i0, base + i1, base + i2})
		}
		return
	}

	// Non-indexed primitive: consecutive vertex triples form triangles.
	for i := 0; i+2 < count; i += 3 {
		m.Faces = append(m.Faces, [3]uint32{base + uint32(i), base + uint32(i+1), base + uint32(i+2)})
	}
}

// vertexColor resolves the RGBA color of vertex i, element-size aware:
// RGB colors get full alpha, colorless primitives take the flat color.
func vertexColor(p *Primitive, i int, flat [4]float32) [4]float32 {
	size := p.ColorSize
	if size != 3 && size != 4 {
		size = 4
	}
	if len(p.Colors) < (i+1)*size {
		return flat
	}

	c := [4]float32{0, 0, 0, 1}
	copy(c[:size], p.Colors[i*size:(i+1)*size])
	return c
}

func computeBounds(positions []gomath.Vec3) Bounds {
	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return Bounds{
		Min:    lo,
		Max:    hi,
		Center: lo.Add(hi).Scale(0.5),
		Extent: hi.Sub(lo),
	}
}
