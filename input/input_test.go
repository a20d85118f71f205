package input

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"github.com/looptunes/looptunes/engine"
)

type recorder []engine.Event

func (r *recorder) Send(ev engine.Event) bool {
	*r = append(*r, ev)
	return true
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		key  byte
		want engine.Event
	}{
		{' ', engine.TogglePlay{}},
		{'1', engine.ToggleRoot{Index: 0}},
		{'9', engine.ToggleRoot{Index: 8}},
		{'c', engine.Copy{}},
		{'v', engine.Paste{AtCursor: true}},
		{'s', engine.StopAll{}},
		{'q', engine.Quit{}},
		{3, engine.Quit{}},
	}
	for _, tt := range tests {
		got, ok := KeyEvent(tt.key)
		if !ok || got != tt.want {
			t.Errorf("key %q: got %#v, %v", tt.key, got, ok)
		}
	}
	if _, ok := KeyEvent('0'); ok {
		t.Error("key 0 should not map to an event")
	}
}

func TestReadKeys(t *testing.T) {
	var r recorder
	readKeys(strings.NewReader("1x2q"), &r, slog.New(slog.NewTextHandler(io.Discard, nil)))
	want := []engine.Event{engine.ToggleRoot{Index: 0}, engine.ToggleRoot{Index: 1}, engine.Quit{}}
	if len(r) != len(want) {
		t.Fatalf("got %d events, want %d", len(r), len(want))
	}
	for i := range want {
		if r[i] != want[i] {
			t.Errorf("event %d: got %#v, want %#v", i, r[i], want[i])
		}
	}
}

func TestNoteEvent(t *testing.T) {
	ev, ok := NoteEvent(midi.NoteOn(0, 61, 100))
	if !ok || ev != (engine.ToggleRoot{Index: 61}) {
		t.Errorf("note on: got %#v, %v", ev, ok)
	}
	if _, ok := NoteEvent(midi.NoteOff(0, 61)); ok {
		t.Error("note off should not map to an event")
	}
	if _, ok := NoteEvent(midi.NoteOn(0, 61, 0)); ok {
		t.Error("note on with zero velocity should not map to an event")
	}
}
