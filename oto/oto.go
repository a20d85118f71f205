package oto

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Session is an audio session on the default output device. oto allows only
// one context per process, so a program should open a single Session.
type Session struct {
	context *oto.Context
	player  *oto.Player
	format  Format
}

// Format is the sample format negotiated with the device.
type Format int

const (
	Float32 Format = iota
	Int16
)

const otoBufferSize = 40 * time.Millisecond

var ErrPlaying = errors.New("session is already playing")

// NewSession opens the audio device for mono output and waits until it is
// ready.
func NewSession(sampleRate int, format Format) (*Session, error) {
	f := oto.FormatFloat32LE
	if format == Int16 {
		f = oto.FormatSignedInt16LE
	}
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       f,
		BufferSize:   otoBufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Session{context: context, format: format}, nil
}

// Play starts pulling float32 little-endian samples from source on oto's
// goroutine. The source should never block or return EOF.
func (s *Session) Play(source io.Reader) error {
	if s.player != nil {
		return ErrPlaying
	}
	if s.format == Int16 {
		source = &int16Reader{source: source}
	}
	s.player = s.context.NewPlayer(source)
	s.player.Play()
	return nil
}

// Close stops playback and suspends the device.
func (s *Session) Close() error {
	if s.player != nil {
		if err := s.player.Close(); err != nil {
			return fmt.Errorf("cannot close oto player: %w", err)
		}
		s.player = nil
	}
	if err := s.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}
