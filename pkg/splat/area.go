package splat

import "sort"

// AreaTable holds per-face triangle areas and the cumulative
// distribution used for area-weighted face selection. Areas are
// accumulated in float64 so large face counts don't erode the sum.
type AreaTable struct {
	Areas []float64
	CDF   []float64
	Total float64
}

// NewAreaTable computes triangle areas and the cumulative distribution
// for a mesh. Degenerate (zero-area) faces stay in the table; they
// carry no probability mass and are never selected. Returns ErrNoFaces
// for a faceless mesh and ErrZeroArea when every face is degenerate,
// so a zero total never divides through into NaN entries.
func NewAreaTable(m *Mesh) (*AreaTable, error) {
	if len(m.Faces) == 0 {
		return nil, ErrNoFaces
	}

	areas := make([]float64, len(m.Faces))
	total := 0.0
	for i, f := range m.Faces {
		e1 := m.Positions[f[1]].Sub(m.Positions[f[0]])
		e2 := m.Positions[f[2]].Sub(m.Positions[f[0]])
		a := float64(e1.Cross(e2).Length()) / 2
		areas[i] = a
		total += a
	}

	if total == 0 {
		return nil, ErrZeroArea
	}

	cdf := make([]float64, len(areas))
	sum := 0.0
	for i, a := range areas {
		sum += a / total
		cdf[i] = sum
	}

	return &AreaTable{Areas: areas, CDF: cdf, Total: total}, nil
}

// Select returns the smallest face index i with CDF[i] >= r, so faces
// are drawn with probability proportional to their area. r must be in
// [0,1); values beyond the final cumulative sum (floating rounding)
// clamp to the last face.
func (t *AreaTable) Select(r float64) int {
	i := sort.SearchFloat64s(t.CDF, r)
	if i >= len(t.CDF) {
		i = len(t.CDF) - 1
	}
	return i
}
