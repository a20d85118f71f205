package input

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("input is not a terminal")

// Terminal reads single key presses from a terminal in raw mode.
type Terminal struct {
	fd    int
	state *term.State
}

// StartTerminal puts in into raw mode and sends the events of pressed keys to
// s from a new goroutine. Events that do not fit in the queue are dropped.
// The reader goroutine ends with the input or the process; Close only
// restores the terminal.
func StartTerminal(in *os.File, s Sender, log *slog.Logger) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("cannot set raw mode: %w", err)
	}
	go readKeys(in, s, log)
	return &Terminal{fd: fd, state: state}, nil
}

func readKeys(r io.Reader, s Sender, log *slog.Logger) {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			ev, ok := KeyEvent(b)
			if !ok {
				continue
			}
			if !s.Send(ev) {
				log.Warn("event queue full, key dropped", "key", string(rune(b)))
			}
		}
		if err != nil {
			return
		}
	}
}

// Close restores the terminal to the state it had before StartTerminal.
func (t *Terminal) Close() error {
	if err := term.Restore(t.fd, t.state); err != nil {
		return fmt.Errorf("cannot restore terminal: %w", err)
	}
	return nil
}
