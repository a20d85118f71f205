package oto

import (
	"encoding/binary"
	"io"
	"math"
)

// int16Reader converts a float32 little-endian stream to 16-bit little-endian
// integers, for devices that do not take float samples.
type int16Reader struct {
	source io.Reader
	tmp    []byte
}

func (r *int16Reader) Read(p []byte) (int, error) {
	n := len(p) / 2
	if cap(r.tmp) < n*4 {
		r.tmp = make([]byte, n*4)
	}
	m, err := io.ReadFull(r.source, r.tmp[:n*4])
	FloatBytesTo16BitLE(p, r.tmp[:m])
	return m / 2, err
}

// FloatBytesTo16BitLE converts float32 little-endian samples in src to 16-bit
// little-endian samples in dst, which must hold len(src)/2 bytes. Values
// outside [-1,1] are clipped.
func FloatBytesTo16BitLE(dst, src []byte) {
	for i := 0; i+4 <= len(src); i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(src[i:]))
		var uv int16
		if v < -1.0 {
			uv = -math.MaxInt16
		} else if v > 1.0 {
			uv = math.MaxInt16
		} else {
			uv = int16(v * math.MaxInt16)
		}
		binary.LittleEndian.PutUint16(dst[i/2:], uint16(uv))
	}
}
