package synth_test

import (
	"math"
	"testing"

	"github.com/looptunes/looptunes"
	"github.com/looptunes/looptunes/synth"
)

const chunk = 2048

func timestamps(start, n int) []float64 {
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = float64(start+i) / looptunes.SampleRate
	}
	return ret
}

func frequency(t *testing.T, name string) int {
	t.Helper()
	i, ok := looptunes.LookupFrequency(name)
	if !ok {
		t.Fatalf("no frequency %q", name)
	}
	return i
}

// expectedTriangle is the output of a lone playing triangle root at 440 Hz.
func expectedTriangle(tbl *looptunes.WaveTable, times []float64) []float32 {
	ret := make([]float32, len(times))
	for i, t := range times {
		c := t * 440
		idx := int(math.Floor(1024 * (c - math.Floor(c))))
		ret[i] = float32(synth.DefaultGain) * (tbl.At(idx) - tbl.Average())
	}
	return ret
}

func assertClose(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSingleTriangle(t *testing.T) {
	s := looptunes.NewScene()
	tbl := looptunes.NewWaveTable(looptunes.Triangle)
	s.Add(looptunes.Node{Frequency: frequency(t, "A4"), Wave: tbl, Playing: true}, looptunes.NoNode)
	m := synth.NewMixer(synth.DefaultGain)
	times := timestamps(0, chunk)
	assertClose(t, m.Mix(s, s.PlayingRoots(), times), expectedTriangle(tbl, times))
	// buffers are reused between calls without leaking state
	assertClose(t, m.Mix(s, s.PlayingRoots(), times), expectedTriangle(tbl, times))
}

func TestParentModulatesChild(t *testing.T) {
	s := looptunes.NewScene()
	root, _ := s.Add(looptunes.Node{Frequency: frequency(t, "1s"), Wave: looptunes.NewWaveTable(looptunes.Square), Playing: true}, looptunes.NoNode)
	tbl := looptunes.NewWaveTable(looptunes.Triangle)
	child, _ := s.Add(looptunes.Node{Frequency: frequency(t, "A4"), Wave: tbl}, root)
	m := synth.NewMixer(synth.DefaultGain)
	times := timestamps(0, chunk)

	// the square is 1 during the first half second, so the child passes
	// through unchanged and the parent adds nothing of its own
	assertClose(t, m.Mix(s, s.PlayingRoots(), times), expectedTriangle(tbl, times))

	// shifted by half a cycle, the child reads the silent half of the square
	if err := s.SetPhase(child, 0.5); err != nil {
		t.Fatal(err)
	}
	for i, v := range m.Mix(s, s.PlayingRoots(), times) {
		if v != 0 {
			t.Fatalf("sample %d = %v, want silence", i, v)
		}
	}
}

func TestSiblingsAreSummed(t *testing.T) {
	s := looptunes.NewScene()
	root, _ := s.Add(looptunes.Node{Frequency: frequency(t, "1s"), Wave: looptunes.NewWaveTable(looptunes.Square), Playing: true}, looptunes.NoNode)
	tbl := looptunes.NewWaveTable(looptunes.Triangle)
	s.Add(looptunes.Node{Frequency: frequency(t, "A4"), Wave: tbl}, root)
	s.Add(looptunes.Node{Frequency: frequency(t, "A4"), Wave: tbl}, root)
	times := timestamps(0, chunk)
	want := expectedTriangle(tbl, times)
	for i := range want {
		want[i] *= 2
	}
	assertClose(t, synth.NewMixer(synth.DefaultGain).Mix(s, s.PlayingRoots(), times), want)
}

func TestNothingPlaying(t *testing.T) {
	s := looptunes.DemoScene()
	out := synth.NewMixer(synth.DefaultGain).Mix(s, nil, timestamps(0, chunk))
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %v, want silence", i, v)
		}
	}
}
