// Package stream connects the engine, which produces audio a chunk at a time
// whenever its loop gets around to it, with the audio device, which consumes
// samples at a fixed rate from its own goroutine. The two sides share nothing
// but a bounded channel.
package stream

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Backend is the producer side of the stream. It is owned by the engine loop;
// only the queue is shared with the Source.
type Backend struct {
	queue      chan float32
	sampleRate int
	chunkSize  int
	modulus    uint64
	position   uint64
	times      []float64

	dropped atomic.Uint64
}

// PeriodSeconds is the length in seconds after which the position counter
// wraps. It is a whole number of cycles of every beat in the frequency table,
// so beats stay in phase across the wrap.
const PeriodSeconds = 256 * 3

var ErrCapacity = errors.New("queue capacity must hold at least one chunk")

// NewBackend creates a backend producing chunkSize samples per chunk into a
// queue holding capacity samples.
func NewBackend(sampleRate, chunkSize, capacity int) (*Backend, error) {
	if sampleRate <= 0 || chunkSize <= 0 {
		return nil, fmt.Errorf("invalid stream parameters: rate %d, chunk %d", sampleRate, chunkSize)
	}
	if capacity < chunkSize {
		return nil, fmt.Errorf("capacity %d, chunk %d: %w", capacity, chunkSize, ErrCapacity)
	}
	return &Backend{
		queue:      make(chan float32, capacity),
		sampleRate: sampleRate,
		chunkSize:  chunkSize,
		modulus:    uint64(sampleRate) * PeriodSeconds,
		times:      make([]float64, chunkSize),
	}, nil
}

func (b *Backend) SampleRate() int { return b.sampleRate }
func (b *Backend) ChunkSize() int  { return b.chunkSize }

// Queued returns the number of samples waiting for the consumer.
func (b *Backend) Queued() int { return len(b.queue) }

// Capacity returns the size of the queue in samples.
func (b *Backend) Capacity() int { return cap(b.queue) }

// Dropped returns how many samples SendBuffer could not enqueue because the
// queue was full.
func (b *Backend) Dropped() uint64 { return b.dropped.Load() }

// HasFreeSpace reports whether a whole chunk fits in the queue. The consumer
// only ever makes room, so a true result stays true until the next send.
func (b *Backend) HasFreeSpace() bool {
	return cap(b.queue)-len(b.queue) >= b.chunkSize
}

// TimeChunk returns the timestamps, in seconds, of the samples of the next
// chunk. The returned slice is reused by the next call.
func (b *Backend) TimeChunk() []float64 {
	rate := float64(b.sampleRate)
	for i := range b.times {
		b.times[i] = float64(b.position+uint64(i)) / rate
	}
	return b.times
}

// SendBuffer enqueues the samples without blocking and advances the position
// by len(samples). Samples that do not fit are dropped.
func (b *Backend) SendBuffer(samples []float32) {
	for i, s := range samples {
		select {
		case b.queue <- s:
		default:
			b.dropped.Add(uint64(len(samples) - i))
			b.advance(len(samples))
			return
		}
	}
	b.advance(len(samples))
}

func (b *Backend) advance(n int) {
	b.position = (b.position + uint64(n)) % b.modulus
}

// Reset moves the position back to zero, so that playback started later
// begins in phase.
func (b *Backend) Reset() { b.position = 0 }

// Position returns the playback position counter in samples.
func (b *Backend) Position() uint64 { return b.position }

// ElapsedSeconds returns the position in seconds, for display purposes.
func (b *Backend) ElapsedSeconds() float32 {
	return float32(float64(b.position) / float64(b.sampleRate))
}

// Source returns a consumer reading from this backend's queue. Only one
// Source should be read at a time.
func (b *Backend) Source() *Source {
	return &Source{queue: b.queue}
}
