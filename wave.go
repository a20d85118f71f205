package looptunes

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/viterin/vek/vek32"
	"golang.org/x/text/cases"
)

// WaveLength is the number of samples in one WaveTable cycle.
const WaveLength = 1024

type (
	// WaveTable is one cycle of a periodic signal, sampled at WaveLength
	// points. All values stay in [0,1]. The mean of the table is cached and
	// used to remove the DC offset when mixing.
	WaveTable struct {
		samples [WaveLength]float32
		average float32
	}

	// Generator maps a position in the unit interval [0,1) to an amplitude.
	Generator func(x float32) float32
)

var (
	Sine     Generator = func(x float32) float32 { return 0.5 + 0.5*float32(math.Cos(2*math.Pi*float64(x))) }
	Square   Generator = func(x float32) float32 { return b2f(x < 0.5) }
	Triangle Generator = func(x float32) float32 { return float32(math.Abs(float64(1 - 2*x))) }
	Sawtooth Generator = func(x float32) float32 { return 1 - x }
	Noise    Generator = func(float32) float32 { return rand.Float32() }
)

// NoiseFrom returns a noise generator drawing from r, for reproducible noise
// tables.
func NoiseFrom(r *rand.Rand) Generator {
	return func(float32) float32 { return r.Float32() }
}

var generators = map[string]Generator{
	"sine":     Sine,
	"square":   Square,
	"triangle": Triangle,
	"sawtooth": Sawtooth,
	"noise":    Noise,
}

// LookupGenerator finds a built-in generator by name, ignoring case.
func LookupGenerator(name string) (Generator, bool) {
	g, ok := generators[cases.Fold().String(name)]
	return g, ok
}

// GeneratorNames lists the names accepted by LookupGenerator.
func GeneratorNames() []string {
	ret := make([]string, 0, len(generators))
	for name := range generators {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// NewWaveTable fills a table by evaluating gen at i/WaveLength for every
// index i. Results are clamped to [0,1]. Noise is sampled once here and never
// regenerated.
func NewWaveTable(gen Generator) *WaveTable {
	w := &WaveTable{}
	for i := range w.samples {
		w.samples[i] = clamp01(gen(float32(i) / WaveLength))
	}
	w.update()
	return w
}

// WaveTableFromSamples copies samples into a new table. The slice must be
// exactly WaveLength long; values are clamped to [0,1].
func WaveTableFromSamples(samples []float32) (*WaveTable, bool) {
	if len(samples) != WaveLength {
		return nil, false
	}
	w := &WaveTable{}
	for i, v := range samples {
		w.samples[i] = clamp01(v)
	}
	w.update()
	return w, true
}

func (w *WaveTable) At(i int) float32 { return w.samples[clampIndex(i, WaveLength)] }

// Average returns the arithmetic mean of the table.
func (w *WaveTable) Average() float32 { return w.average }

// Samples returns a copy of the table values.
func (w *WaveTable) Samples() []float32 {
	ret := make([]float32, WaveLength)
	copy(ret, w.samples[:])
	return ret
}

func (w *WaveTable) Set(i int, v float32) {
	w.samples[clampIndex(i, WaveLength)] = clamp01(v)
	w.update()
}

func (w *WaveTable) Clone() *WaveTable {
	ret := *w
	return &ret
}

// Draw edits the table freehand between two pointer positions given as
// offsets from the node center. The angle of a position selects the table
// index, its radius the value: radius 0.5 maps to 0 and radius 1 to 1. The
// segment always follows the shorter way around the circle.
func (w *WaveTable) Draw(a, b Position) {
	i0, v0 := polarToTable(a)
	i1, v1 := polarToTable(b)
	if i0 == i1 {
		w.samples[i1] = clamp01(v1)
		w.update()
		return
	}
	if abs(i1-i0) > WaveLength/2 {
		if i0 < i1 {
			i0 += WaveLength
		} else {
			i1 += WaveLength
		}
	}
	if i0 > i1 {
		i0, i1 = i1, i0
		v0, v1 = v1, v0
	}
	for i := i0; i <= i1; i++ {
		t := float32(i-i0) / float32(i1-i0)
		w.samples[i%WaveLength] = clamp01(v0 + (v1-v0)*t)
	}
	w.update()
}

func polarToTable(p Position) (index int, value float32) {
	angle := math.Pi + math.Atan2(float64(p.X), -float64(p.Y))
	if math.IsNaN(angle) {
		return 0, polarValue(p)
	}
	index = int(math.Round(WaveLength*angle/(2*math.Pi))) % WaveLength
	return index, polarValue(p)
}

func polarValue(p Position) float32 {
	return 2*float32(math.Hypot(float64(p.X), float64(p.Y))) - 1
}

func (w *WaveTable) update() {
	w.average = vek32.Mean(w.samples[:])
}

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
