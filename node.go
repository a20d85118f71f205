package looptunes

import (
	"errors"
	"math"
)

type (
	// NodeID identifies a node in a Scene. IDs are never reused within one
	// Scene; the zero value means "no node".
	NodeID uint32

	// Position is a 2D offset. Node positions are relative to the parent node,
	// or to the world origin for roots.
	Position struct {
		X, Y float32
	}

	// Color is a linear RGBA color tag. It is not used for synthesis, only
	// carried along so that a visual frontend can show it.
	Color struct {
		R, G, B, A float32
	}

	// Node is one oscillator in the tree. Frequency indexes the frequency
	// table, Phase is the offset in [0,1) at which the node reads its parent's
	// waveform as an envelope. The playing flag only has an effect on root
	// nodes; every node reachable from a playing root is part of the mix.
	Node struct {
		Name      string
		Frequency int
		Phase     float32
		Wave      *WaveTable
		Playing   bool
		Color     Color
		Position  Position
	}

	// Graph is the read-only view of a node tree needed to synthesize audio and
	// take snapshots.
	Graph interface {
		Node(id NodeID) (*Node, bool)
		Children(id NodeID) []NodeID
		Roots() []NodeID
	}
)

// NoNode is the zero NodeID, used as the parent of root nodes.
const NoNode NodeID = 0

var (
	ErrNoSuchNode   = errors.New("no such node")
	ErrCycle        = errors.New("node cannot become its own descendant")
	ErrBadFrequency = errors.New("frequency index out of range")
)

// NewNode returns a node with the default frequency and a fresh sine table.
func NewNode() Node {
	return Node{
		Frequency: DefaultFrequency,
		Wave:      NewWaveTable(Sine),
		Color:     Color{1, 1, 1, 1},
	}
}

// Hz returns the frequency of the node in Hz.
func (n *Node) Hz() float64 { return FrequencyHz(n.Frequency) }

// WrapPhase folds p into [0,1). Non-finite values become 0.
func WrapPhase(p float32) float32 {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f -= math.Floor(f)
	if f >= 1 {
		return 0
	}
	return float32(f)
}
