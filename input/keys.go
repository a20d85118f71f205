// Package input turns key presses and MIDI notes into engine events.
package input

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/looptunes/looptunes/engine"
)

// Sender accepts events without blocking; *engine.Engine implements it.
type Sender interface {
	Send(ev engine.Event) bool
}

// KeyEvent maps a key to its event:
//
//	space    toggle the selected tree
//	1-9      toggle root 1-9
//	c        copy the selected tree to the clipboard
//	v        paste the clipboard at the cursor
//	s        stop everything
//	q ^C ^D  quit
func KeyEvent(key byte) (engine.Event, bool) {
	switch key {
	case ' ':
		return engine.TogglePlay{}, true
	case 'c', 'C':
		return engine.Copy{}, true
	case 'v', 'V':
		return engine.Paste{AtCursor: true}, true
	case 's', 'S':
		return engine.StopAll{}, true
	case 'q', 'Q', 3, 4:
		return engine.Quit{}, true
	}
	if key >= '1' && key <= '9' {
		return engine.ToggleRoot{Index: int(key - '1')}, true
	}
	return nil, false
}

// NoteEvent maps a MIDI note-on to toggling the root picked by the note
// number. Other messages, and note-ons with zero velocity, map to nothing.
func NoteEvent(msg midi.Message) (engine.Event, bool) {
	var channel, key, velocity uint8
	if !msg.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
		return nil, false
	}
	return engine.ToggleRoot{Index: int(key)}, true
}
