package looptunes_test

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/looptunes/looptunes"
)

func mustAdd(t *testing.T, s *looptunes.Scene, parent looptunes.NodeID) looptunes.NodeID {
	t.Helper()
	id, err := s.Add(looptunes.NewNode(), parent)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return id
}

func TestSceneStructure(t *testing.T) {
	s := looptunes.NewScene()
	root := mustAdd(t, s, looptunes.NoNode)
	a := mustAdd(t, s, root)
	b := mustAdd(t, s, root)
	c := mustAdd(t, s, a)
	if got := s.Children(root); !slices.Equal(got, []looptunes.NodeID{a, b}) {
		t.Errorf("children of root = %v", got)
	}
	if got := s.Roots(); !slices.Equal(got, []looptunes.NodeID{root}) {
		t.Errorf("roots = %v", got)
	}
	if s.RootOf(c) != root || s.Parent(c) != a {
		t.Errorf("c: root %d, parent %d", s.RootOf(c), s.Parent(c))
	}
	if err := s.Reparent(a, c); !errors.Is(err, looptunes.ErrCycle) {
		t.Errorf("reparenting under own child: %v", err)
	}
	if err := s.Reparent(c, looptunes.NoNode); err != nil {
		t.Fatalf("Reparent failed: %v", err)
	}
	if got := s.Roots(); !slices.Equal(got, []looptunes.NodeID{root, c}) {
		t.Errorf("roots after reparent = %v", got)
	}
	if n := s.Remove(root); n != 3 {
		t.Errorf("removed %d nodes, want 3", n)
	}
	if s.Len() != 1 {
		t.Errorf("%d nodes left, want 1", s.Len())
	}
}

func TestSceneRejectsBadInput(t *testing.T) {
	s := looptunes.NewScene()
	n := looptunes.NewNode()
	n.Frequency = looptunes.NumFrequencies()
	if _, err := s.Add(n, looptunes.NoNode); !errors.Is(err, looptunes.ErrBadFrequency) {
		t.Errorf("bad frequency: %v", err)
	}
	if _, err := s.Add(looptunes.NewNode(), 42); !errors.Is(err, looptunes.ErrNoSuchNode) {
		t.Errorf("missing parent: %v", err)
	}
	id := mustAdd(t, s, looptunes.NoNode)
	if err := s.SetFrequency(id, -1); !errors.Is(err, looptunes.ErrBadFrequency) {
		t.Errorf("SetFrequency(-1): %v", err)
	}
}

func TestPhaseIsWrapped(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0.25, 0.25},
		{1.25, 0.25},
		{-0.25, 0.75},
		{1, 0},
		{float32(math.Inf(1)), 0},
	}
	s := looptunes.NewScene()
	id := mustAdd(t, s, looptunes.NoNode)
	for _, tt := range tests {
		if err := s.SetPhase(id, tt.in); err != nil {
			t.Fatalf("SetPhase failed: %v", err)
		}
		n, _ := s.Node(id)
		if n.Phase != tt.want {
			t.Errorf("phase %v stored as %v, want %v", tt.in, n.Phase, tt.want)
		}
	}
}

func TestPlayingOnlyOnRoots(t *testing.T) {
	s := looptunes.NewScene()
	root := mustAdd(t, s, looptunes.NoNode)
	child := mustAdd(t, s, root)
	other := mustAdd(t, s, looptunes.NoNode)
	playing, err := s.TogglePlaying(child)
	if err != nil || !playing {
		t.Fatalf("TogglePlaying(child) = %v, %v", playing, err)
	}
	if got := s.PlayingRoots(); !slices.Equal(got, []looptunes.NodeID{root}) {
		t.Errorf("playing roots = %v", got)
	}
	if err := s.SetPlaying(other, true); err != nil {
		t.Fatal(err)
	}
	if len(s.PlayingRoots()) != 2 {
		t.Errorf("playing roots = %v", s.PlayingRoots())
	}
	s.StopAll()
	if len(s.PlayingRoots()) != 0 {
		t.Errorf("playing roots after StopAll = %v", s.PlayingRoots())
	}
}

func TestClone(t *testing.T) {
	s := looptunes.NewScene()
	root := mustAdd(t, s, looptunes.NoNode)
	a := mustAdd(t, s, root)
	b := mustAdd(t, s, root)
	na, _ := s.Node(a)
	nb, _ := s.Node(b)
	nb.Wave = na.Wave
	s.SetPlaying(root, true)

	clone, err := s.Clone(root, looptunes.NoNode)
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("scene has %d nodes, want 6", s.Len())
	}
	cn, _ := s.Node(clone)
	if cn.Playing {
		t.Error("clone should not be playing")
	}
	kids := s.Children(clone)
	if len(kids) != 2 {
		t.Fatalf("clone has %d children", len(kids))
	}
	ka, _ := s.Node(kids[0])
	kb, _ := s.Node(kids[1])
	if ka.Wave == na.Wave {
		t.Error("clone shares a wave table with the original")
	}
	if ka.Wave != kb.Wave {
		t.Error("clone lost the sharing between its nodes")
	}
	if _, err := s.Clone(root, a); err != nil {
		t.Errorf("cloning under own child: %v", err)
	}
}

func TestSplice(t *testing.T) {
	dst := looptunes.NewScene()
	mustAdd(t, dst, looptunes.NoNode)
	sub := looptunes.NewScene()
	r := mustAdd(t, sub, looptunes.NoNode)
	mustAdd(t, sub, r)
	roots := dst.Splice(sub)
	if len(roots) != 1 || dst.Len() != 3 || sub.Len() != 0 {
		t.Fatalf("roots %v, dst %d nodes, sub %d nodes", roots, dst.Len(), sub.Len())
	}
	if len(dst.Children(roots[0])) != 1 {
		t.Error("spliced root lost its child")
	}
}

func TestReadScene(t *testing.T) {
	const file = `
nodes:
  - name: beat
    frequency: 1/4
    wave: square
    playing: true
  - name: tone
    parent: beat
    frequency: a4
    wave: Triangle
    phase: 0.5
    position: [10, 0]
`
	s, err := looptunes.ReadScene(strings.NewReader(file))
	if err != nil {
		t.Fatalf("ReadScene failed: %v", err)
	}
	roots := s.PlayingRoots()
	if len(roots) != 1 {
		t.Fatalf("playing roots = %v", roots)
	}
	kids := s.Children(roots[0])
	if len(kids) != 1 {
		t.Fatalf("children = %v", kids)
	}
	n, _ := s.Node(kids[0])
	if n.Name != "tone" || n.Hz() != 440 || n.Phase != 0.5 || n.Position.X != 10 {
		t.Errorf("unexpected node %+v", *n)
	}
	if n.Color != (looptunes.Color{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("default color = %v", n.Color)
	}
	if _, err := looptunes.ReadScene(strings.NewReader("nodes:\n  - name: x\n    parent: y\n    frequency: 1s\n")); err == nil {
		t.Error("undefined parent accepted")
	}
}

func TestDemoScene(t *testing.T) {
	s := looptunes.DemoScene()
	if s.Len() != 4 || len(s.Roots()) != 1 {
		t.Errorf("demo scene has %d nodes, %d roots", s.Len(), len(s.Roots()))
	}
}
