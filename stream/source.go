package stream

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// Decay is the factor applied to the last sample on every underrun.
const Decay = 0.99

// Source is the consumer side of the stream, read by the audio device. It
// never blocks: when the queue is empty, it repeats the last sample scaled by
// Decay, fading out instead of clicking.
type Source struct {
	queue <-chan float32
	last  float32

	underruns atomic.Uint64
	consumed  atomic.Uint64
}

// Next returns the next output sample.
func (s *Source) Next() float32 {
	select {
	case v := <-s.queue:
		s.last = v
		s.consumed.Add(1)
		return v
	default:
	}
	s.last *= Decay
	s.underruns.Add(1)
	return s.last
}

// Read fills p with float32 little-endian mono samples. It always fills the
// whole buffer (rounded down to whole samples) and never returns an error,
// so it can be handed to an audio device as an endless stream.
func (s *Source) Read(p []byte) (int, error) {
	n := len(p) / 4
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s.Next()))
	}
	return n * 4, nil
}

// Underruns returns how many samples were synthesized because the queue was
// empty.
func (s *Source) Underruns() uint64 { return s.underruns.Load() }

// Consumed returns how many queued samples have been played.
func (s *Source) Consumed() uint64 { return s.consumed.Load() }
