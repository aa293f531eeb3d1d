package splat

import (
	"math"
	"sort"

	gomath "github.com/Faultbox/splatc/pkg/math"
)

// Default conversion tunables.
const (
	// DefaultSampleCount is the number of surface points drawn when the
	// caller does not specify one.
	DefaultSampleCount = 500000

	// DefaultScaleFactor relates splat size to the mesh's largest
	// bounding-box axis.
	DefaultScaleFactor = 0.003

	// DefaultFlatten attenuates the scale axis aligned with the surface
	// normal, turning each splat into a thin oriented disk.
	DefaultFlatten = 0.3
)

// Splat is one point-rendering primitive. Importance is derived for
// ordering only and is not persisted in the binary output.
type Splat struct {
	Position   gomath.Vec3
	Scale      gomath.Vec3
	Color      [4]uint8
	Rotation   gomath.Quat
	Importance float64
}

// Assemble turns sampled surface points into splats. The scale is
// uniform across the cloud, derived once from the mesh bounds:
// base = maxExtent * scaleFactor on the two in-plane axes, attenuated
// by flatten on the normal-aligned axis. Importance is the scale volume
// weighted by opacity, so larger, more opaque splats sort earlier.
func Assemble(points []SampledPoint, bounds Bounds, scaleFactor, flatten float32) []Splat {
	base := bounds.MaxExtent() * scaleFactor
	scale := gomath.Vec3{X: base, Y: base, Z: base * flatten}
	volume := float64(scale.X) * float64(scale.Y) * float64(scale.Z)

	splats := make([]Splat, len(points))
	for i := range points {
		p := &points[i]
		color := quantizeColor(p.Color)
		splats[i] = Splat{
			Position:   p.Position,
			Scale:      scale,
			Color:      color,
			Rotation:   OrientationFromNormal(p.Normal),
			Importance: volume * float64(color[3]) / 255,
		}
	}
	return splats
}

// SortByImportance orders splats descending by importance. The sort is
// stable so equal-importance splats keep their sampling order across
// runs; consumers rely on this ordering for front-to-back blending.
func SortByImportance(splats []Splat) {
	sort.SliceStable(splats, func(i, j int) bool {
		return splats[i].Importance > splats[j].Importance
	})
}

// quantizeColor maps [0,1] channels onto [0,255] bytes, clamping out of
// range values produced by interpolation.
func quantizeColor(c [4]float32) [4]uint8 {
	var out [4]uint8
	for i, v := range c {
		out[i] = uint8(clamp(math.Round(float64(v)*255), 0, 255))
	}
	return out
}
