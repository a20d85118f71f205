//go:build !cgo

package cmd

import (
	"errors"
	"io"
	"log/slog"

	"github.com/looptunes/looptunes/input"
)

// with no cgo, we cannot use RtMidi
var errNoMIDI = errors.New("MIDI input needs a cgo build")

func OpenMIDI(prefix string, s input.Sender, log *slog.Logger) (io.Closer, error) {
	return nil, errNoMIDI
}

func MIDIInputs() ([]string, error) {
	return nil, errNoMIDI
}
