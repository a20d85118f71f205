package cmd

import (
	"errors"
	"io"
	"sync"
	"time"
)

// NullSession reads a stream at its sample rate and discards it, standing in
// for an audio device on machines without one.
type NullSession struct {
	bytesPerSecond int
	stop           chan struct{}
	wg             sync.WaitGroup
}

const nullSessionPeriod = 10 * time.Millisecond

var errNullPlaying = errors.New("null session is already playing")

func NewNullSession(sampleRate int) *NullSession {
	return &NullSession{bytesPerSecond: sampleRate * 4}
}

func (n *NullSession) Play(source io.Reader) error {
	if n.stop != nil {
		return errNullPlaying
	}
	n.stop = make(chan struct{})
	buf := make([]byte, n.bytesPerSecond*int(nullSessionPeriod)/int(time.Second)/4*4)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ticker := time.NewTicker(nullSessionPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-n.stop:
				return
			case <-ticker.C:
				if _, err := io.ReadFull(source, buf); err != nil {
					return
				}
			}
		}
	}()
	return nil
}

func (n *NullSession) Close() error {
	if n.stop != nil {
		close(n.stop)
		n.wg.Wait()
		n.stop = nil
	}
	return nil
}
