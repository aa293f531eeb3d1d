package splat

import (
	"math"

	gomath "github.com/Faultbox/splatc/pkg/math"
)

// referenceAxis is the splat's flattened axis before rotation. The
// orientation quaternion rotates it onto the sampled surface normal so
// splats approximate oriented disks rather than isotropic blobs.
var referenceAxis = gomath.Vec3{Z: 1}

// parallelThreshold guards the degenerate rotation axis when the normal
// is (anti)parallel to the reference.
const parallelThreshold = 0.9999

// OrientationFromNormal returns the unit quaternion that rotates the +Z
// reference axis onto the given unit normal. Normals parallel to the
// reference map to identity; antiparallel normals map to a 180 degree
// turn about the X axis.
func OrientationFromNormal(n gomath.Vec3) gomath.Quat {
	dot := referenceAxis.Dot(n)

	if dot > parallelThreshold {
		return gomath.QuatIdentity()
	}
	if dot < -parallelThreshold {
		return gomath.Quat{X: 1}
	}

	axis := referenceAxis.Cross(n).Normalize()
	angle := math.Acos(clamp(float64(dot), -1, 1))
	return gomath.QuatFromAxisAngle(axis, float32(angle)).Normalize()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
