// Package synth renders the playing node trees into audio.
//
// Every node is a table oscillator. A node without children is audible: it
// adds its DC-free waveform, scaled by the volume it inherited, to the mix. A
// node with children is silent itself; instead its waveform, read at the
// child's phase offset, becomes the volume envelope handed down to each child.
// Deep trees therefore produce rhythms and timbres purely from their shape.
package synth

import (
	"math"

	"github.com/looptunes/looptunes"
	"github.com/viterin/vek/vek32"
)

// DefaultGain is the volume every playing root starts with.
const DefaultGain = 0.2

type (
	// Mixer evaluates node trees one chunk at a time. It keeps its buffers
	// between calls, so a Mixer must not be shared between goroutines.
	Mixer struct {
		gain  float32
		out   []float32
		tmp   []float32
		stack []entry
		free  [][]float32
	}

	entry struct {
		id     looptunes.NodeID
		volume []float32
	}
)

func NewMixer(gain float32) *Mixer {
	return &Mixer{gain: gain}
}

func (m *Mixer) Gain() float32 { return m.gain }

// Mix renders the trees below roots at the given sample timestamps (seconds)
// and returns one sample per timestamp. The returned slice is reused by the
// next call to Mix.
func (m *Mixer) Mix(g looptunes.Graph, roots []looptunes.NodeID, times []float64) []float32 {
	n := len(times)
	m.out = zeroed(m.out, n)
	m.tmp = zeroed(m.tmp, n)
	for _, r := range roots {
		v := m.get(n)
		for i := range v {
			v[i] = m.gain
		}
		m.stack = append(m.stack, entry{id: r, volume: v})
	}
	for len(m.stack) > 0 {
		e := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		node, ok := g.Node(e.id)
		if !ok || node.Wave == nil {
			m.put(e.volume)
			continue
		}
		hz := node.Hz()
		children := g.Children(e.id)
		if len(children) == 0 {
			avg := node.Wave.Average()
			for i, t := range times {
				m.tmp[i] = node.Wave.At(tableIndex(t*hz)) - avg
			}
			vek32.Mul_Inplace(m.tmp, e.volume)
			vek32.Add_Inplace(m.out, m.tmp)
			m.put(e.volume)
			continue
		}
		for _, c := range children {
			child, ok := g.Node(c)
			if !ok {
				continue
			}
			phase := float64(child.Phase)
			v := m.get(n)
			for i, t := range times {
				v[i] = node.Wave.At(tableIndex(t*hz - phase))
			}
			vek32.Mul_Inplace(v, e.volume)
			m.stack = append(m.stack, entry{id: c, volume: v})
		}
		m.put(e.volume)
	}
	return m.out
}

// tableIndex maps a phase, in cycles, to an index of a wave table. The lookup
// is intentionally not interpolated.
func tableIndex(cycles float64) int {
	frac := cycles - math.Floor(cycles)
	i := int(frac * looptunes.WaveLength)
	if i >= looptunes.WaveLength {
		return looptunes.WaveLength - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

func (m *Mixer) get(n int) []float32 {
	if l := len(m.free); l > 0 {
		v := m.free[l-1]
		m.free = m.free[:l-1]
		if cap(v) >= n {
			return v[:n]
		}
	}
	return make([]float32, n)
}

func (m *Mixer) put(v []float32) {
	m.free = append(m.free, v)
}

func zeroed(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
