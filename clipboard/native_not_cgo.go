//go:build !cgo

package clipboard

// Native is unavailable without cgo; NewNative always fails.
type Native struct{}

func NewNative() (*Native, error) {
	return nil, ErrUnavailable
}

func (Native) ReadText() (string, error) { return "", ErrUnavailable }
func (Native) WriteText(string) error    { return ErrUnavailable }
