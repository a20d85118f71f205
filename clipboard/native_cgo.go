//go:build cgo

package clipboard

import (
	"fmt"

	"golang.design/x/clipboard"
)

// Native is the system clipboard.
type Native struct{}

// NewNative initializes the system clipboard. It fails when no clipboard
// service is reachable, e.g. on a headless Linux box without X11.
func NewNative() (*Native, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Native{}, nil
}

func (Native) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (Native) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
