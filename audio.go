package looptunes

import "io"

// SampleRate is the rate of the audio stream, in samples per second.
const SampleRate = 48000

type (
	// AudioSession is an open connection to an audio device. It plays a mono
	// float32 little-endian stream read from a source until closed.
	AudioSession interface {
		Play(source io.Reader) error
		Close() error
	}
)
