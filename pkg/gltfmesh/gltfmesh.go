// Package gltfmesh decodes glTF and GLB assets into the primitive
// arrays consumed by the splat conversion pipeline.
package gltfmesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/splatc/pkg/splat"
)

// Load reads a .gltf or .glb file and extracts every triangle
// primitive in the document.
func Load(path string) ([]splat.Primitive, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return Primitives(doc)
}

// Primitives walks all meshes of a parsed document and decodes each
// triangle primitive. Primitives with other topologies or without a
// POSITION attribute are skipped, matching the aggregator's contract.
func Primitives(doc *gltf.Document) ([]splat.Primitive, error) {
	var prims []splat.Primitive

	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			p, err := decodePrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			if p != nil {
				prims = append(prims, *p)
			}
		}
	}

	return prims, nil
}

func decodePrimitive(doc *gltf.Document, prim *gltf.Primitive) (*splat.Primitive, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	out := &splat.Primitive{Positions: positions}

	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		out.Normals = normals
	}

	if colorIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		acc := doc.Accessors[colorIdx]
		colors, err := modeler.ReadColor(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading colors: %w", err)
		}
		out.Colors, out.ColorSize = flattenColors(colors, acc.Type)
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
		out.Indices = indices
	}

	out.BaseColor = materialBaseColor(doc, prim)

	return out, nil
}

// flattenColors converts modeler's normalized RGBA bytes into the flat
// [0,1] float array the aggregator expects, preserving the source
// element size: VEC3 accessors stay RGB so the aggregator applies its
// own alpha default.
func flattenColors(colors [][4]uint8, accType gltf.AccessorType) ([]float32, int) {
	size := 4
	if accType == gltf.AccessorVec3 {
		size = 3
	}

	flat := make([]float32, 0, len(colors)*size)
	for _, c := range colors {
		for i := 0; i < size; i++ {
			flat = append(flat, float32(c[i])/255)
		}
	}
	return flat, size
}

// materialBaseColor returns the primitive material's base color factor,
// or nil when the primitive has no material with a PBR block. A PBR
// block without an explicit factor defaults to white per the glTF spec.
func materialBaseColor(doc *gltf.Document, prim *gltf.Primitive) *[4]float32 {
	if prim.Material == nil || int(*prim.Material) >= len(doc.Materials) {
		return nil
	}
	mat := doc.Materials[*prim.Material]
	if mat == nil || mat.PBRMetallicRoughness == nil {
		return nil
	}
	if f := mat.PBRMetallicRoughness.BaseColorFactor; f != nil {
		c := *f
		return &c
	}
	return &[4]float32{1, 1, 1, 1}
}
