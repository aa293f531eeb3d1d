package splat

import (
	"encoding/json"

	gomath "github.com/Faultbox/splatc/pkg/math"
)

// Manifest schema versions.
const (
	ManifestVersion = 1
	FormatVersion   = 1
)

// Manifest is the JSON sidecar describing an encoded splat buffer:
// record layout, point count and spatial bounds. Renderers read it to
// interpret the binary file without any embedded header.
type Manifest struct {
	Version       int                `json:"version"`
	Format        string             `json:"format"`
	FormatVersion int                `json:"formatVersion"`
	PointCount    int                `json:"pointCount"`
	Bounds        ManifestBounds     `json:"bounds"`
	FileSize      int64              `json:"fileSize"`
	BytesPerSplat int                `json:"bytesPerSplat"`
	Attributes    ManifestAttributes `json:"attributes"`
}

// ManifestBounds mirrors the mesh bounds as plain arrays.
type ManifestBounds struct {
	Min    [3]float32 `json:"min"`
	Max    [3]float32 `json:"max"`
	Center [3]float32 `json:"center"`
	Extent [3]float32 `json:"extent"`
}

// Attribute describes one field of the 32-byte record.
type Attribute struct {
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Type   string `json:"type"`
}

// ManifestAttributes lists the record fields in layout order.
type ManifestAttributes struct {
	Position Attribute `json:"position"`
	Scale    Attribute `json:"scale"`
	Color    Attribute `json:"color"`
	Rotation Attribute `json:"rotation"`
}

// NewManifest builds the sidecar for a buffer of pointCount splats over
// the given mesh bounds.
func NewManifest(pointCount int, bounds Bounds) Manifest {
	return Manifest{
		Version:       ManifestVersion,
		Format:        "splat",
		FormatVersion: FormatVersion,
		PointCount:    pointCount,
		Bounds: ManifestBounds{
			Min:    vecArray(bounds.Min),
			Max:    vecArray(bounds.Max),
			Center: vecArray(bounds.Center),
			Extent: vecArray(bounds.Extent),
		},
		FileSize:      int64(pointCount) * BytesPerSplat,
		BytesPerSplat: BytesPerSplat,
		Attributes: ManifestAttributes{
			Position: Attribute{Offset: 0, Size: 12, Type: "float32x3"},
			Scale:    Attribute{Offset: 12, Size: 12, Type: "float32x3"},
			Color:    Attribute{Offset: 24, Size: 4, Type: "uint8x4"},
			Rotation: Attribute{Offset: 28, Size: 4, Type: "uint8x4"},
		},
	}
}

// MarshalJSONIndent renders the manifest for the sidecar file.
func (m Manifest) MarshalJSONIndent() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func vecArray(v gomath.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
