package splat

import (
	"encoding/binary"
	"errors"
	"math"

	gomath "github.com/Faultbox/splatc/pkg/math"
)

// BytesPerSplat is the size of one encoded splat record: position
// 3xfloat32 at offset 0, scale 3xfloat32 at 12, RGBA color 4xuint8 at
// 24, quantized rotation (w,x,y,z) 4xuint8 at 28. Little-endian, no
// header or footer.
const BytesPerSplat = 32

// Decoding errors.
var ErrTruncatedSplatData = errors.New("truncated splat data: length is not a multiple of 32")

// Encode serializes an ordered splat sequence into flat 32-byte
// records. The output is exactly BytesPerSplat * len(splats) bytes.
func Encode(splats []Splat) []byte {
	buf := make([]byte, len(splats)*BytesPerSplat)
	for i := range splats {
		encodeRecord(buf[i*BytesPerSplat:(i+1)*BytesPerSplat], &splats[i])
	}
	return buf
}

func encodeRecord(b []byte, s *Splat) {
	le := binary.LittleEndian

	le.PutUint32(b[0:], math.Float32bits(s.Position.X))
	le.PutUint32(b[4:], math.Float32bits(s.Position.Y))
	le.PutUint32(b[8:], math.Float32bits(s.Position.Z))

	le.PutUint32(b[12:], math.Float32bits(s.Scale.X))
	le.PutUint32(b[16:], math.Float32bits(s.Scale.Y))
	le.PutUint32(b[20:], math.Float32bits(s.Scale.Z))

	copy(b[24:28], s.Color[:])

	// Encoded rotations must sit on the unit sphere even if the stored
	// quaternion has drifted.
	q := s.Rotation.Normalize()
	b[28] = quantizeRotation(q.W)
	b[29] = quantizeRotation(q.X)
	b[30] = quantizeRotation(q.Y)
	b[31] = quantizeRotation(q.Z)
}

// quantizeRotation maps a component in [-1,1] onto [0,255] with zero at
// 128, clamping the rounded value into byte range.
func quantizeRotation(v float32) uint8 {
	return uint8(clamp(math.Round(float64(v)*128+128), 0, 255))
}

// Decode parses a buffer produced by Encode. Positions and scales come
// back exact; color is the stored bytes; rotation components are mapped
// back to [-1,1] without renormalization. Importance is not persisted
// and decodes as zero.
func Decode(data []byte) ([]Splat, error) {
	if len(data)%BytesPerSplat != 0 {
		return nil, ErrTruncatedSplatData
	}

	splats := make([]Splat, len(data)/BytesPerSplat)
	for i := range splats {
		decodeRecord(data[i*BytesPerSplat:(i+1)*BytesPerSplat], &splats[i])
	}
	return splats, nil
}

func decodeRecord(b []byte, s *Splat) {
	le := binary.LittleEndian

	s.Position = gomath.Vec3{
		X: math.Float32frombits(le.Uint32(b[0:])),
		Y: math.Float32frombits(le.Uint32(b[4:])),
		Z: math.Float32frombits(le.Uint32(b[8:])),
	}
	s.Scale = gomath.Vec3{
		X: math.Float32frombits(le.Uint32(b[12:])),
		Y: math.Float32frombits(le.Uint32(b[16:])),
		Z: math.Float32frombits(le.Uint32(b[20:])),
	}
	copy(s.Color[:], b[24:28])
	s.Rotation = gomath.Quat{
		W: dequantizeRotation(b[28]),
		X: dequantizeRotation(b[29]),
		Y: dequantizeRotation(b[30]),
		Z: dequantizeRotation(b[31]),
	}
}

func dequantizeRotation(b uint8) float32 {
	return (float32(b) - 128) / 128
}
