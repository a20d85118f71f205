package engine

import (
	"time"

	"github.com/looptunes/looptunes"
)

type (
	// Event is a request for the engine loop. Event sources never touch the
	// scene; they send events, and wait on the Reply channel of the event if
	// they need an answer.
	Event interface{ event() }

	// Result is the answer to an event with a Reply channel. ID is the node
	// the event created or acted on; Text is the snapshot of a Copy.
	Result struct {
		ID      looptunes.NodeID
		Text    string
		Playing bool
		Err     error
	}

	// Select makes a node the target of events that do not name one.
	Select struct{ ID looptunes.NodeID }

	// MoveCursor sets the world position where AtCursor pastes land.
	MoveCursor struct{ At looptunes.Position }

	// TogglePlay flips the playing flag of the tree containing ID, or of the
	// selected node's tree when ID is NoNode.
	TogglePlay struct {
		ID    looptunes.NodeID
		Reply chan<- Result
	}

	// ToggleRoot flips the playing flag of a root picked by index, wrapping
	// around the number of roots. Used by key and MIDI bindings.
	ToggleRoot struct{ Index int }

	StopAll struct{}

	// Copy snapshots the subtree at ID (or the selection). Without a Reply
	// channel the text goes to the clipboard.
	Copy struct {
		ID    looptunes.NodeID
		Reply chan<- Result
	}

	// Paste inserts a snapshot as a new tree. Empty Text is read from the
	// clipboard.
	Paste struct {
		Text     string
		At       looptunes.Position
		AtCursor bool
		Reply    chan<- Result
	}

	// Draw edits the wave table of a node along a stroke from From to To,
	// both relative to the node's center.
	Draw struct {
		ID       looptunes.NodeID
		From, To looptunes.Position
	}

	SetFrequency struct {
		ID        looptunes.NodeID
		Frequency int
	}

	SetPhase struct {
		ID    looptunes.NodeID
		Phase float32
	}

	// AddChild creates a node under Parent, or a new root for NoNode. Wave
	// names a generator; empty means sine.
	AddChild struct {
		Parent    looptunes.NodeID
		Wave      string
		Frequency int
		Phase     float32
		Position  looptunes.Position
		Reply     chan<- Result
	}

	// Delete removes a node and its subtree.
	Delete struct{ ID looptunes.NodeID }

	// List describes every node of the scene.
	List struct{ Reply chan<- []NodeInfo }

	// Quit makes Tick return false.
	Quit struct{}
)

func (Select) event()       {}
func (MoveCursor) event()   {}
func (TogglePlay) event()   {}
func (ToggleRoot) event()   {}
func (StopAll) event()      {}
func (Copy) event()         {}
func (Paste) event()        {}
func (Draw) event()         {}
func (SetFrequency) event() {}
func (SetPhase) event()     {}
func (AddChild) event()     {}
func (Delete) event()       {}
func (List) event()         {}
func (Quit) event()         {}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
