package looptunes_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/looptunes/looptunes"
)

// polar returns the pointer offset that selects table index i with the given
// radius.
func polar(i int, radius float64) looptunes.Position {
	a := 2*math.Pi*float64(i)/looptunes.WaveLength - math.Pi
	return looptunes.Position{X: float32(radius * math.Sin(a)), Y: float32(-radius * math.Cos(a))}
}

func TestGeneratorsStayInRange(t *testing.T) {
	gens := map[string]looptunes.Generator{"noise from": looptunes.NoiseFrom(rand.New(rand.NewPCG(1, 2)))}
	for _, name := range looptunes.GeneratorNames() {
		gen, ok := looptunes.LookupGenerator(name)
		if !ok {
			t.Fatalf("generator %q listed but not found", name)
		}
		gens[name] = gen
	}
	gens["out of range"] = func(x float32) float32 { return 4*x - 2 }
	for name, gen := range gens {
		t.Run(name, func(t *testing.T) {
			samples := looptunes.NewWaveTable(gen).Samples()
			if len(samples) != looptunes.WaveLength {
				t.Fatalf("got %d samples, want %d", len(samples), looptunes.WaveLength)
			}
			for i, v := range samples {
				if v < 0 || v > 1 {
					t.Fatalf("sample %d = %v, outside [0,1]", i, v)
				}
			}
		})
	}
}

func TestGeneratorShapes(t *testing.T) {
	tests := []struct {
		gen   looptunes.Generator
		index int
		want  float32
	}{
		{looptunes.Sine, 0, 1},
		{looptunes.Sine, 512, 0},
		{looptunes.Square, 511, 1},
		{looptunes.Square, 512, 0},
		{looptunes.Triangle, 0, 1},
		{looptunes.Triangle, 512, 0},
		{looptunes.Sawtooth, 0, 1},
		{looptunes.Sawtooth, 768, 0.25},
	}
	for _, tt := range tests {
		if got := looptunes.NewWaveTable(tt.gen).At(tt.index); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("sample %d: got %v, want %v", tt.index, got, tt.want)
		}
	}
	if _, ok := looptunes.LookupGenerator("TRIANGLE"); !ok {
		t.Error("generator lookup should ignore case")
	}
}

func TestNoiseIsFrozen(t *testing.T) {
	w := looptunes.NewWaveTable(looptunes.Noise)
	a := w.At(100)
	for range 10 {
		if w.At(100) != a {
			t.Fatal("noise table changed between reads")
		}
	}
	r1 := looptunes.NewWaveTable(looptunes.NoiseFrom(rand.New(rand.NewPCG(7, 7))))
	r2 := looptunes.NewWaveTable(looptunes.NoiseFrom(rand.New(rand.NewPCG(7, 7))))
	if r1.At(300) != r2.At(300) {
		t.Error("seeded noise tables differ")
	}
}

func TestAverage(t *testing.T) {
	w := looptunes.NewWaveTable(looptunes.Square)
	if w.Average() != 0.5 {
		t.Fatalf("square average = %v, want 0.5", w.Average())
	}
	w.Set(600, 1)
	if want := float32(513) / 1024; math.Abs(float64(w.Average()-want)) > 1e-6 {
		t.Errorf("average after Set = %v, want %v", w.Average(), want)
	}
}

func TestDrawFollowsShorterArc(t *testing.T) {
	w := looptunes.NewWaveTable(looptunes.Square)
	w.Draw(polar(1000, 0.5), polar(24, 0.5))
	for _, i := range []int{1000, 1023, 0, 10, 24} {
		if w.At(i) != 0 {
			t.Errorf("sample %d = %v, want 0", i, w.At(i))
		}
	}
	for _, i := range []int{25, 100, 500} {
		if w.At(i) != 1 {
			t.Errorf("sample %d = %v, should not have been drawn", i, w.At(i))
		}
	}
	if want := float32(512-25) / 1024; math.Abs(float64(w.Average()-want)) > 1e-6 {
		t.Errorf("average = %v, want %v", w.Average(), want)
	}
}

func TestDrawInterpolatesAndClamps(t *testing.T) {
	w := looptunes.NewWaveTable(looptunes.Sine)
	w.Draw(polar(210, 1), polar(200, 0.5))
	if got := w.At(205); math.Abs(float64(got-0.5)) > 1e-3 {
		t.Errorf("midpoint = %v, want 0.5", got)
	}
	w.Draw(polar(100, 2), polar(110, 3))
	for i := 100; i <= 110; i++ {
		if w.At(i) != 1 {
			t.Errorf("sample %d = %v, want clamped to 1", i, w.At(i))
		}
	}
}

func TestDrawCoincidentIndices(t *testing.T) {
	w := looptunes.NewWaveTable(looptunes.Sine)
	w.Draw(polar(300, 1), polar(300, 0.75))
	if got := w.At(300); math.Abs(float64(got-0.5)) > 1e-5 {
		t.Errorf("sample 300 = %v, want the target value 0.5", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	w := looptunes.NewWaveTable(looptunes.Sine)
	c := w.Clone()
	c.Set(0, 0)
	if w.At(0) != 1 {
		t.Error("editing a clone changed the original")
	}
}
