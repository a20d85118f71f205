// Package gomidi listens to a MIDI input through RtMidi. It needs cgo.
package gomidi

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/looptunes/looptunes/input"
)

var ErrNoDevice = errors.New("no matching MIDI input")

// Listener forwards note-ons of one MIDI input to the engine.
type Listener struct {
	driver *rtmididrv.Driver
	in     drivers.In
	stop   func()
}

// Inputs lists the names of the available MIDI inputs.
func Inputs() ([]string, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("cannot open MIDI driver: %w", err)
	}
	defer driver.Close()
	ins, err := driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("cannot list MIDI inputs: %w", err)
	}
	ret := make([]string, len(ins))
	for i, in := range ins {
		ret[i] = in.String()
	}
	return ret, nil
}

// Listen opens the first input whose name starts with namePrefix and sends
// an event to s for every note-on.
func Listen(namePrefix string, s input.Sender, log *slog.Logger) (*Listener, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("cannot open MIDI driver: %w", err)
	}
	ins, err := driver.Ins()
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("cannot list MIDI inputs: %w", err)
	}
	for _, in := range ins {
		if !strings.HasPrefix(in.String(), namePrefix) {
			continue
		}
		if err := in.Open(); err != nil {
			driver.Close()
			return nil, fmt.Errorf("opening MIDI input %q failed: %w", in.String(), err)
		}
		stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
			ev, ok := input.NoteEvent(msg)
			if ok && !s.Send(ev) {
				log.Warn("event queue full, note dropped", "msg", msg.String())
			}
		})
		if err != nil {
			in.Close()
			driver.Close()
			return nil, fmt.Errorf("listening to MIDI input %q failed: %w", in.String(), err)
		}
		log.Info("listening to MIDI input", "name", in.String())
		return &Listener{driver: driver, in: in, stop: stop}, nil
	}
	driver.Close()
	return nil, fmt.Errorf("%w: %q", ErrNoDevice, namePrefix)
}

func (l *Listener) Close() error {
	l.stop()
	if l.in.IsOpen() {
		l.in.Close()
	}
	return l.driver.Close()
}
