package looptunes

import (
	"fmt"
	"slices"
)

type (
	// Scene is an arena of nodes keyed by NodeID. The parent of every node is
	// stored with the node; the children index is derived from the parents
	// and rebuilt lazily after structural changes (add, remove, reparent).
	//
	// Scene is not safe for concurrent use; it is owned by the engine loop.
	Scene struct {
		nodes  map[NodeID]*sceneNode
		nextID NodeID

		// derived data, nil when stale
		children map[NodeID][]NodeID
		roots    []NodeID
	}

	sceneNode struct {
		Node
		parent NodeID
	}
)

func NewScene() *Scene {
	return &Scene{nodes: map[NodeID]*sceneNode{}, nextID: 1}
}

// Len returns the number of nodes in the scene.
func (s *Scene) Len() int { return len(s.nodes) }

// Node returns a pointer to the node stored in the scene, which can be used to
// edit its synthesis fields in place.
func (s *Scene) Node(id NodeID) (*Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return &n.Node, true
}

// Parent returns the parent of the node, or NoNode for roots and unknown ids.
func (s *Scene) Parent(id NodeID) NodeID {
	if n, ok := s.nodes[id]; ok {
		return n.parent
	}
	return NoNode
}

// RootOf follows parent links up to the root of the tree containing id.
func (s *Scene) RootOf(id NodeID) NodeID {
	if _, ok := s.nodes[id]; !ok {
		return NoNode
	}
	for {
		p := s.nodes[id].parent
		if p == NoNode {
			return id
		}
		id = p
	}
}

// Children returns the children of the node in ascending id order. The
// returned slice is shared with the scene and must not be modified.
func (s *Scene) Children(id NodeID) []NodeID {
	s.derive()
	return s.children[id]
}

// Roots returns all parentless nodes in ascending id order.
func (s *Scene) Roots() []NodeID {
	s.derive()
	return s.roots
}

// PlayingRoots returns the roots whose playing flag is set.
func (s *Scene) PlayingRoots() []NodeID {
	var ret []NodeID
	for _, id := range s.Roots() {
		if s.nodes[id].Playing {
			ret = append(ret, id)
		}
	}
	return ret
}

// IDs returns the ids of all nodes in ascending order.
func (s *Scene) IDs() []NodeID {
	ret := make([]NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		ret = append(ret, id)
	}
	slices.Sort(ret)
	return ret
}

// Add inserts a node under parent (NoNode for a new root). The phase is
// wrapped into [0,1) and a nil wave gets a sine table.
func (s *Scene) Add(n Node, parent NodeID) (NodeID, error) {
	if !ValidFrequency(n.Frequency) {
		return NoNode, fmt.Errorf("%w: %d", ErrBadFrequency, n.Frequency)
	}
	if parent != NoNode {
		if _, ok := s.nodes[parent]; !ok {
			return NoNode, fmt.Errorf("parent %d: %w", parent, ErrNoSuchNode)
		}
	}
	n.Phase = WrapPhase(n.Phase)
	if n.Wave == nil {
		n.Wave = NewWaveTable(Sine)
	}
	id := s.nextID
	s.nextID++
	s.nodes[id] = &sceneNode{Node: n, parent: parent}
	s.invalidate()
	return id, nil
}

// Remove deletes the node and all of its descendants. Returns the number of
// nodes removed.
func (s *Scene) Remove(id NodeID) int {
	if _, ok := s.nodes[id]; !ok {
		return 0
	}
	stack := []NodeID{id}
	removed := 0
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, s.Children(cur)...)
		delete(s.nodes, cur)
		removed++
	}
	s.invalidate()
	return removed
}

// Reparent moves the node under a new parent, or makes it a root when parent
// is NoNode. The node keeps its relative position.
func (s *Scene) Reparent(id, parent NodeID) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("node %d: %w", id, ErrNoSuchNode)
	}
	if parent != NoNode {
		if _, ok := s.nodes[parent]; !ok {
			return fmt.Errorf("parent %d: %w", parent, ErrNoSuchNode)
		}
		for p := parent; p != NoNode; p = s.nodes[p].parent {
			if p == id {
				return fmt.Errorf("node %d under %d: %w", id, parent, ErrCycle)
			}
		}
	}
	n.parent = parent
	s.invalidate()
	return nil
}

// SetFrequency changes the frequency of a node, rejecting invalid indices.
func (s *Scene) SetFrequency(id NodeID, frequency int) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("node %d: %w", id, ErrNoSuchNode)
	}
	if !ValidFrequency(frequency) {
		return fmt.Errorf("%w: %d", ErrBadFrequency, frequency)
	}
	n.Frequency = frequency
	return nil
}

// SetPhase changes the phase of a node, wrapping it into [0,1).
func (s *Scene) SetPhase(id NodeID, phase float32) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("node %d: %w", id, ErrNoSuchNode)
	}
	n.Phase = WrapPhase(phase)
	return nil
}

// SetPlaying sets the playing flag of the root of the tree containing id.
func (s *Scene) SetPlaying(id NodeID, playing bool) error {
	root := s.RootOf(id)
	if root == NoNode {
		return fmt.Errorf("node %d: %w", id, ErrNoSuchNode)
	}
	s.nodes[root].Playing = playing
	return nil
}

// TogglePlaying flips the playing flag of the root of the tree containing id
// and returns the new state.
func (s *Scene) TogglePlaying(id NodeID) (bool, error) {
	root := s.RootOf(id)
	if root == NoNode {
		return false, fmt.Errorf("node %d: %w", id, ErrNoSuchNode)
	}
	n := s.nodes[root]
	n.Playing = !n.Playing
	return n.Playing, nil
}

// StopAll clears the playing flag of every node.
func (s *Scene) StopAll() {
	for _, n := range s.nodes {
		n.Playing = false
	}
}

// Clone deep copies the subtree rooted at id under parent. Wave tables are
// copied, so drawing on the clone leaves the original untouched; nodes that
// shared a table keep sharing the copy. Returns the id of the new subtree
// root.
func (s *Scene) Clone(id, parent NodeID) (NodeID, error) {
	if _, ok := s.nodes[id]; !ok {
		return NoNode, fmt.Errorf("node %d: %w", id, ErrNoSuchNode)
	}
	sub := NewScene()
	waves := map[*WaveTable]*WaveTable{}
	type item struct{ src, dstParent NodeID }
	stack := []item{{id, NoNode}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := s.nodes[it.src].Node
		w, ok := waves[n.Wave]
		if !ok {
			w = n.Wave.Clone()
			waves[n.Wave] = w
		}
		n.Wave = w
		n.Playing = false
		newID, err := sub.Add(n, it.dstParent)
		if err != nil {
			return NoNode, err
		}
		for _, c := range slices.Backward(s.Children(it.src)) {
			stack = append(stack, item{c, newID})
		}
	}
	roots := s.Splice(sub)
	if parent != NoNode {
		if err := s.Reparent(roots[0], parent); err != nil {
			s.Remove(roots[0])
			return NoNode, err
		}
	}
	return roots[0], nil
}

// Splice moves every node of sub into s in one step, preserving structure
// and order, and returns the new ids of sub's roots. sub is left empty.
func (s *Scene) Splice(sub *Scene) []NodeID {
	mapping := make(map[NodeID]NodeID, len(sub.nodes))
	ids := sub.IDs()
	for _, old := range ids {
		mapping[old] = s.nextID
		s.nextID++
	}
	for _, old := range ids {
		n := sub.nodes[old]
		s.nodes[mapping[old]] = &sceneNode{Node: n.Node, parent: mapping[n.parent]}
	}
	var roots []NodeID
	for _, r := range sub.Roots() {
		roots = append(roots, mapping[r])
	}
	sub.nodes = map[NodeID]*sceneNode{}
	sub.invalidate()
	s.invalidate()
	return roots
}

func (s *Scene) invalidate() {
	s.children = nil
	s.roots = nil
}

func (s *Scene) derive() {
	if s.children != nil {
		return
	}
	s.children = make(map[NodeID][]NodeID, len(s.nodes))
	s.roots = s.roots[:0]
	for _, id := range s.IDs() {
		p := s.nodes[id].parent
		if p == NoNode {
			s.roots = append(s.roots, id)
			continue
		}
		s.children[p] = append(s.children[p], id)
	}
}
