package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/looptunes/looptunes"
	"github.com/looptunes/looptunes/snapshot"
)

func TestRender(t *testing.T) {
	s := looptunes.NewScene()
	a4, _ := looptunes.LookupFrequency("A4")
	s.Add(looptunes.Node{Frequency: a4, Wave: looptunes.NewWaveTable(looptunes.Square)}, looptunes.NoNode)
	snap, err := snapshot.Take(s, s.Roots()[0])
	if err != nil {
		t.Fatal(err)
	}
	out, err := render(snap, 48000, 5000, 0.2)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(out) != 5000 {
		t.Fatalf("got %d samples", len(out))
	}
	// a DC-free square at gain 0.2 swings between +-0.1
	for i, v := range out {
		if math.Abs(math.Abs(float64(v))-0.1) > 1e-3 {
			t.Fatalf("sample %d = %v", i, v)
		}
	}
}

func TestEncodeInspect(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{"encode", "testdata/scene.yml", "--node", "tone"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	snap, err := snapshot.Decode(out.String())
	if err != nil {
		t.Fatalf("encoded text does not decode: %v", err)
	}
	if len(snap.Nodes) != 2 {
		t.Errorf("snapshot of tone has %d nodes, want 2", len(snap.Nodes))
	}
}
