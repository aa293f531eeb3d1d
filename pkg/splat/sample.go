package splat

import (
	"math/rand"

	"golang.org/x/sync/errgroup"

	gomath "github.com/Faultbox/splatc/pkg/math"
)

// NormalSource identifies how a sampled point's normal was derived.
type NormalSource uint8

const (
	// NormalFromVertices: all three vertex normals were present, so the
	// normal is their barycentric interpolation, renormalized.
	NormalFromVertices NormalSource = iota
	// NormalFromFace: at least one vertex normal was missing (or the
	// interpolation collapsed to zero length), so the flat face normal
	// from the edge cross product is used.
	NormalFromFace
	// NormalDegenerate: the face itself is degenerate; the normal is
	// the fixed +Z fallback.
	NormalDegenerate
)

// SampledPoint is one surface sample. It exists only between sampling
// and splat assembly.
type SampledPoint struct {
	Position gomath.Vec3
	Color    [4]float32
	Normal   gomath.Vec3
	Face     int
	Source   NormalSource
}

// Barycentric folds two independent uniform draws in [0,1) into uniform
// barycentric weights over a triangle: if u1+u2 > 1 the pair is
// reflected back into the lower half, then r3 completes the sum to 1.
func Barycentric(u1, u2 float64) (r1, r2, r3 float32) {
	if u1+u2 > 1 {
		u1, u2 = 1-u1, 1-u2
	}
	r1 = float32(u1)
	r2 = float32(u2)
	r3 = 1 - r1 - r2
	return
}

// Sampler draws area-weighted surface points from an aggregated mesh.
// It holds only read-only state and is safe for concurrent use as long
// as each goroutine brings its own random source.
type Sampler struct {
	mesh  *Mesh
	table *AreaTable
}

// NewSampler builds a sampler over a mesh and its area table.
func NewSampler(mesh *Mesh, table *AreaTable) *Sampler {
	return &Sampler{mesh: mesh, table: table}
}

// Sample draws one surface point: a face chosen by area via the
// cumulative distribution, a uniform location inside it, and the
// interpolated vertex attributes at that location.
func (s *Sampler) Sample(rng *rand.Rand) SampledPoint {
	face := s.table.Select(rng.Float64())
	r1, r2, r3 := Barycentric(rng.Float64(), rng.Float64())

	f := s.mesh.Faces[face]
	v0, v1, v2 := f[0], f[1], f[2]

	pos := s.mesh.Positions[v0].Scale(r1).
		Add(s.mesh.Positions[v1].Scale(r2)).
		Add(s.mesh.Positions[v2].Scale(r3))

	var color [4]float32
	c0, c1, c2 := s.mesh.Colors[v0], s.mesh.Colors[v1], s.mesh.Colors[v2]
	for i := 0; i < 4; i++ {
		color[i] = c0[i]*r1 + c1[i]*r2 + c2[i]*r3
	}

	normal, source := s.normalAt(face, r1, r2, r3)

	return SampledPoint{
		Position: pos,
		Color:    color,
		Normal:   normal,
		Face:     face,
		Source:   source,
	}
}

// normalAt resolves the surface normal at a barycentric location. The
// three cases are ordered: interpolated vertex normals, flat face
// normal, fixed +Z for exactly degenerate faces.
func (s *Sampler) normalAt(face int, r1, r2, r3 float32) (gomath.Vec3, NormalSource) {
	f := s.mesh.Faces[face]
	n0, n1, n2 := s.mesh.Normals[f[0]], s.mesh.Normals[f[1]], s.mesh.Normals[f[2]]

	if !n0.IsZero() && !n1.IsZero() && !n2.IsZero() {
		n := n0.Scale(r1).Add(n1.Scale(r2)).Add(n2.Scale(r3))
		if n.Length() > 0 {
			return n.Normalize(), NormalFromVertices
		}
		// Opposing normals cancelled out; fall through to the flat normal.
	}

	e1 := s.mesh.Positions[f[1]].Sub(s.mesh.Positions[f[0]])
	e2 := s.mesh.Positions[f[2]].Sub(s.mesh.Positions[f[0]])
	cross := e1.Cross(e2)
	if cross.Length() > 0 {
		return cross.Normalize(), NormalFromFace
	}

	return gomath.Vec3{Z: 1}, NormalDegenerate
}

// sampleChunkSize is the unit of work for parallel sampling. Each chunk
// owns a generator seeded by seed+chunkIndex, so the sampled points
// depend only on the seed and count, never on the worker count.
const sampleChunkSize = 1 << 16

// SampleN draws count points into a pre-sized slice. workers bounds how
// many chunks run concurrently; 1 keeps sampling fully sequential.
func (s *Sampler) SampleN(count int, seed int64, workers int) []SampledPoint {
	points := make([]SampledPoint, count)
	if count == 0 {
		return points
	}
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for chunk := 0; chunk*sampleChunkSize < count; chunk++ {
		start := chunk * sampleChunkSize
		end := min(start+sampleChunkSize, count)
		rng := rand.New(rand.NewSource(seed + int64(chunk)))

		g.Go(func() error {
			for i := start; i < end; i++ {
				points[i] = s.Sample(rng)
			}
			return nil
		})
	}

	// Chunk workers never fail; Wait only synchronizes completion.
	_ = g.Wait()
	return points
}
