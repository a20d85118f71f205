//go:build cgo

package cmd

import (
	"io"
	"log/slog"

	"github.com/looptunes/looptunes/input"
	"github.com/looptunes/looptunes/input/gomidi"
)

// OpenMIDI listens to the first MIDI input whose name starts with prefix.
func OpenMIDI(prefix string, s input.Sender, log *slog.Logger) (io.Closer, error) {
	l, err := gomidi.Listen(prefix, s, log)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// MIDIInputs lists the names of the MIDI inputs.
func MIDIInputs() ([]string, error) {
	return gomidi.Inputs()
}
