package looptunes

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWav encodes a mono buffer as a .wav file at sampleRate. If pcm16 is
// true, the samples are converted to 16-bit signed integers, otherwise they
// are stored as 32-bit float.
func WriteWav(w io.WriteSeeker, buffer []float32, sampleRate int, pcm16 bool) error {
	bitDepth, format := 32, 3 // IEEE float
	if pcm16 {
		bitDepth, format = 16, 1 // PCM
	}
	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, format)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(buffer)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range buffer {
		if pcm16 {
			buf.Data[i] = clamp(int(v*math.MaxInt16), math.MinInt16, math.MaxInt16)
		} else {
			buf.Data[i] = int(int32(math.Float32bits(v)))
		}
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("could not write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("could not finish wav file: %w", err)
	}
	return nil
}

// Raw returns the buffer as little-endian raw samples, float32 or 16-bit
// signed integers.
func Raw(buffer []float32, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	var err error
	if pcm16 {
		int16data := make([]int16, len(buffer))
		for i, v := range buffer {
			int16data[i] = int16(clamp(int(v*math.MaxInt16), math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, buffer)
	}
	if err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return buf.Bytes(), nil
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
