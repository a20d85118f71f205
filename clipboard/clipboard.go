// Package clipboard gives the engine a place to put copied snapshots and to
// take pasted ones from.
package clipboard

import (
	"errors"
	"fmt"
	"sync"
)

// Clipboard holds one piece of text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

var ErrUnavailable = errors.New("clipboard is not available")

// Memory is a process-local clipboard, used headless and in tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// New returns the clipboard named kind: "native" for the system clipboard or
// "memory" for a process-local one.
func New(kind string) (Clipboard, error) {
	switch kind {
	case "memory":
		return &Memory{}, nil
	case "native", "":
		n, err := NewNative()
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown clipboard %q", kind)
	}
}
