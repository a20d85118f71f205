// Package engine runs the instrument's main loop. Every tick it first handles
// the pending events, then renders at most one chunk of audio into the
// stream backend. All scene edits happen on the loop's goroutine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/looptunes/looptunes"
	"github.com/looptunes/looptunes/clipboard"
	"github.com/looptunes/looptunes/stream"
	"github.com/looptunes/looptunes/synth"
)

// EventQueueSize is the capacity of the event queue.
const EventQueueSize = 64

var ErrNothingSelected = errors.New("no node selected")

type (
	Engine struct {
		scene     *looptunes.Scene
		mixer     *synth.Mixer
		backend   *stream.Backend
		clipboard clipboard.Clipboard
		events    chan Event
		log       *slog.Logger

		selected looptunes.NodeID
		cursor   looptunes.Position

		ticks   atomic.Uint64
		chunks  atomic.Uint64
		skipped atomic.Uint64
		failed  atomic.Uint64
	}

	// Stats are counters of the loop, safe to read from any goroutine.
	Stats struct {
		// Ticks counts calls to Tick.
		Ticks uint64
		// Chunks counts chunks handed to the backend.
		Chunks uint64
		// Skipped counts ticks with no room in the queue.
		Skipped uint64
		// Failed counts events that could not be carried out.
		Failed uint64
	}
)

// New creates an engine. A nil logger means slog.Default().
func New(scene *looptunes.Scene, mixer *synth.Mixer, backend *stream.Backend, cb clipboard.Clipboard, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		scene:     scene,
		mixer:     mixer,
		backend:   backend,
		clipboard: cb,
		events:    make(chan Event, EventQueueSize),
		log:       log,
	}
}

// Send queues an event without blocking. It returns false if the queue is
// full and the event was dropped.
func (e *Engine) Send(ev Event) bool {
	return TrySend(e.events, ev)
}

// Selected returns the currently selected node.
func (e *Engine) Selected() looptunes.NodeID { return e.selected }

func (e *Engine) Stats() Stats {
	return Stats{
		Ticks:   e.ticks.Load(),
		Chunks:  e.chunks.Load(),
		Skipped: e.skipped.Load(),
		Failed:  e.failed.Load(),
	}
}

// Tick handles all queued events and then renders one chunk if the backend
// has room for it. It returns false once a Quit event has been handled.
func (e *Engine) Tick() bool {
	e.ticks.Add(1)
F:
	for {
		select {
		case ev := <-e.events:
			if _, ok := ev.(Quit); ok {
				return false
			}
			if err := e.handle(ev); err != nil {
				e.failed.Add(1)
				e.log.Warn("event failed", "event", fmt.Sprintf("%T", ev), "err", err)
			}
		default:
			break F
		}
	}
	e.render()
	return true
}

func (e *Engine) render() {
	if !e.backend.HasFreeSpace() {
		e.skipped.Add(1)
		return
	}
	roots := e.scene.PlayingRoots()
	if len(roots) == 0 {
		// start the next playback in phase
		e.backend.Reset()
		return
	}
	chunk := e.mixer.Mix(e.scene, roots, e.backend.TimeChunk())
	e.backend.SendBuffer(chunk)
	e.chunks.Add(1)
}

// Run ticks every interval until a Quit event arrives or ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if !e.Tick() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
