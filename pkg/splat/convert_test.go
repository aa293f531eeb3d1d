package splat

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestConvertUnitTriangle(t *testing.T) {
	mesh := mustAggregate(t, []Primitive{unitTrianglePrimitive()})

	splats, err := Convert(mesh, Options{Samples: 10, Seed: 1})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	buf := Encode(splats)
	if len(buf) != 320 {
		t.Fatalf("expected 320 bytes for 10 samples, got %d", len(buf))
	}

	decoded, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	for i, s := range decoded {
		// Barycentric feasibility against {(0,0,0),(1,0,0),(0,1,0)}.
		if s.Position.X < -1e-6 || s.Position.Y < -1e-6 || s.Position.X+s.Position.Y > 1+1e-6 {
			t.Errorf("splat %d outside the source triangle: %+v", i, s.Position)
		}
		if s.Position.Z != 0 {
			t.Errorf("splat %d off the triangle plane: %+v", i, s.Position)
		}

		// The triangle's normals all point +Z: identity rotation bytes.
		raw := buf[i*BytesPerSplat+28 : i*BytesPerSplat+32]
		if raw[0] != 255 || raw[1] != 128 || raw[2] != 128 || raw[3] != 128 {
			t.Errorf("splat %d rotation bytes: expected (255,128,128,128), got %v", i, raw)
		}
	}
}

func TestConvertDeterministic(t *testing.T) {
	mesh := mustAggregate(t, []Primitive{unitTrianglePrimitive()})
	opts := Options{Samples: 5000, Seed: 99}

	a, err := Convert(mesh, opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	b, err := Convert(mesh, opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if !bytes.Equal(Encode(a), Encode(b)) {
		t.Error("equal seeds should produce byte-identical buffers")
	}

	// Worker count must not leak into the output bytes.
	opts.Workers = 8
	c, err := Convert(mesh, opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !bytes.Equal(Encode(a), Encode(c)) {
		t.Error("worker count changed the output bytes")
	}
}

func TestConvertSortsByImportance(t *testing.T) {
	// Two triangles, one transparent: all its splats sort last.
	opaque := unitTrianglePrimitive()
	transparent := Primitive{
		Positions: [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
		Indices:   []uint32{0, 1, 2},
		BaseColor: &[4]float32{1, 1, 1, 0},
	}
	mesh := mustAggregate(t, []Primitive{opaque, transparent})

	splats, err := Convert(mesh, Options{Samples: 200, Seed: 4})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	for i := 1; i < len(splats); i++ {
		if splats[i].Importance > splats[i-1].Importance {
			t.Fatalf("splats not in descending importance at %d: %v > %v",
				i, splats[i].Importance, splats[i-1].Importance)
		}
	}

	// The transparent triangle sits at z=1; it must trail the opaque one.
	seenTransparent := false
	for _, s := range splats {
		if s.Position.Z > 0.5 {
			seenTransparent = true
		} else if seenTransparent {
			t.Fatal("opaque splat sorted after a transparent one")
		}
	}
}

func TestConvertDefaultOptions(t *testing.T) {
	opts := Options{}.withDefaults()

	if opts.Samples != DefaultSampleCount {
		t.Errorf("expected default sample count, got %d", opts.Samples)
	}
	if opts.Workers != 1 {
		t.Errorf("expected 1 worker by default, got %d", opts.Workers)
	}
	if opts.ScaleFactor != DefaultScaleFactor || opts.Flatten != DefaultFlatten {
		t.Errorf("expected default shape constants, got %v %v", opts.ScaleFactor, opts.Flatten)
	}
}

func TestConvertZeroAreaMesh(t *testing.T) {
	p := Primitive{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		Indices:   []uint32{0, 1, 2},
	}
	mesh := mustAggregate(t, []Primitive{p})

	_, err := Convert(mesh, Options{Samples: 10})
	if !errors.Is(err, ErrZeroArea) {
		t.Errorf("expected ErrZeroArea, got %v", err)
	}
}

func TestConvertScaleUsesMaxExtent(t *testing.T) {
	// A tall thin triangle: scale follows the largest bounding-box axis.
	p := Primitive{
		Positions: [][3]float32{{0, 0, 0}, {0.1, 0, 0}, {0, 100, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
	mesh := mustAggregate(t, []Primitive{p})

	splats, err := Convert(mesh, Options{Samples: 3, Seed: 1})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	want := float32(100 * DefaultScaleFactor)
	if math.Abs(float64(splats[0].Scale.X-want)) > 1e-5 {
		t.Errorf("expected base scale %v, got %v", want, splats[0].Scale.X)
	}
	if math.Abs(float64(splats[0].Scale.Z-want*DefaultFlatten)) > 1e-5 {
		t.Errorf("expected flattened scale %v, got %v", want*DefaultFlatten, splats[0].Scale.Z)
	}
}

func TestManifestSchema(t *testing.T) {
	mesh := mustAggregate(t, []Primitive{unitTrianglePrimitive()})
	m := NewManifest(10, mesh.Bounds)

	if m.Format != "splat" {
		t.Errorf("expected format splat, got %q", m.Format)
	}
	if m.PointCount != 10 || m.FileSize != 320 || m.BytesPerSplat != 32 {
		t.Errorf("unexpected sizing: count=%d fileSize=%d bytesPerSplat=%d",
			m.PointCount, m.FileSize, m.BytesPerSplat)
	}
	if m.Bounds.Min != [3]float32{0, 0, 0} || m.Bounds.Max != [3]float32{1, 1, 0} {
		t.Errorf("unexpected bounds: %+v", m.Bounds)
	}

	attrs := m.Attributes
	if attrs.Position.Offset != 0 || attrs.Position.Size != 12 || attrs.Position.Type != "float32x3" {
		t.Errorf("unexpected position attribute: %+v", attrs.Position)
	}
	if attrs.Scale.Offset != 12 || attrs.Color.Offset != 24 || attrs.Rotation.Offset != 28 {
		t.Errorf("unexpected attribute offsets: %+v", attrs)
	}

	data, err := m.MarshalJSONIndent()
	if err != nil {
		t.Fatalf("MarshalJSONIndent failed: %v", err)
	}
	for _, key := range []string{`"formatVersion"`, `"pointCount"`, `"bytesPerSplat"`, `"uint8x4"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("manifest JSON missing %s", key)
		}
	}
}
