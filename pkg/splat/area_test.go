package splat

import (
	"errors"
	"math"
	"testing"
)

func mustAggregate(t *testing.T, prims []Primitive) *Mesh {
	t.Helper()
	mesh, err := Aggregate(prims)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	return mesh
}

func TestAreaTableUnitTriangle(t *testing.T) {
	mesh := mustAggregate(t, []Primitive{unitTrianglePrimitive()})

	table, err := NewAreaTable(mesh)
	if err != nil {
		t.Fatalf("NewAreaTable failed: %v", err)
	}

	if math.Abs(table.Areas[0]-0.5) > 1e-9 {
		t.Errorf("unit right triangle area: expected 0.5, got %v", table.Areas[0])
	}
	if math.Abs(table.Total-0.5) > 1e-9 {
		t.Errorf("total area: expected 0.5, got %v", table.Total)
	}
}

func TestAreaTableCDFSumsToOne(t *testing.T) {
	// Mixed triangle sizes, including a large one dominating the area.
	prims := []Primitive{
		unitTrianglePrimitive(),
		{
			Positions: [][3]float32{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}},
			Indices:   []uint32{0, 1, 2},
		},
	}
	mesh := mustAggregate(t, prims)

	table, err := NewAreaTable(mesh)
	if err != nil {
		t.Fatalf("NewAreaTable failed: %v", err)
	}

	last := table.CDF[len(table.CDF)-1]
	if math.Abs(last-1.0) > 1e-9 {
		t.Errorf("final CDF value: expected 1.0 within 1e-9, got %v", last)
	}

	for i := 1; i < len(table.CDF); i++ {
		if table.CDF[i] < table.CDF[i-1] {
			t.Errorf("CDF not monotonic at %d: %v < %v", i, table.CDF[i], table.CDF[i-1])
		}
	}
}

func TestAreaTableDegenerateFacesCarryNoMass(t *testing.T) {
	// Second face is collinear: zero area, stays in the table.
	p := Primitive{
		Positions: [][3]float32{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
			{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
	}
	mesh := mustAggregate(t, []Primitive{p})

	table, err := NewAreaTable(mesh)
	if err != nil {
		t.Fatalf("NewAreaTable failed: %v", err)
	}

	if len(table.Areas) != 2 {
		t.Fatalf("degenerate face should stay in the table, got %d entries", len(table.Areas))
	}
	if table.Areas[1] != 0 {
		t.Errorf("collinear face area: expected 0, got %v", table.Areas[1])
	}

	// The degenerate face shares its CDF value with its predecessor, so
	// the binary search can never land on it.
	for i := 0; i < 10000; i++ {
		r := float64(i) / 10000
		if table.Select(r) == 1 {
			t.Fatalf("degenerate face selected for r=%v", r)
		}
	}
}

func TestAreaTableZeroTotal(t *testing.T) {
	p := Primitive{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		Indices:   []uint32{0, 1, 2},
	}
	mesh := mustAggregate(t, []Primitive{p})

	_, err := NewAreaTable(mesh)
	if !errors.Is(err, ErrZeroArea) {
		t.Errorf("expected ErrZeroArea for an all-degenerate mesh, got %v", err)
	}
}

func TestSelectIsAreaProportional(t *testing.T) {
	// Face 0 has a quarter of the area of face 1.
	p := Primitive{
		Positions: [][3]float32{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
			{0, 0, 0}, {2, 0, 0}, {0, 2, 0},
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
	}
	mesh := mustAggregate(t, []Primitive{p})

	table, err := NewAreaTable(mesh)
	if err != nil {
		t.Fatalf("NewAreaTable failed: %v", err)
	}

	// CDF boundary sits at 0.2.
	if table.Select(0.1) != 0 {
		t.Errorf("r=0.1 should select face 0, got %d", table.Select(0.1))
	}
	if table.Select(0.2) != 0 {
		t.Errorf("r=0.2 is the face 0 boundary, got %d", table.Select(0.2))
	}
	if table.Select(0.5) != 1 {
		t.Errorf("r=0.5 should select face 1, got %d", table.Select(0.5))
	}
	if table.Select(0.9999999) != 1 {
		t.Errorf("r near 1 should select the last face, got %d", table.Select(0.9999999))
	}
}

func TestSelectClampsBeyondFinalSum(t *testing.T) {
	mesh := mustAggregate(t, []Primitive{unitTrianglePrimitive()})
	table, err := NewAreaTable(mesh)
	if err != nil {
		t.Fatalf("NewAreaTable failed: %v", err)
	}

	// Floating rounding can leave the final sum a hair under the draw.
	if got := table.Select(1.0); got != 0 {
		t.Errorf("out-of-range draw should clamp to the last face, got %d", got)
	}
}
