package looptunes

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"
)

type frequencyEntry struct {
	Name string
	Hz   float64
}

// DefaultFrequency is the index of the "1s" beat, the frequency new nodes
// start with.
const DefaultFrequency = 16

var frequencyTable = func() []frequencyEntry {
	var ret []frequencyEntry
	// slow beats, given as period in seconds
	for _, period := range []float64{256, 192, 128, 96, 64, 48, 32, 24, 16, 12, 8, 6, 4, 3, 2, 1.5, 1, 0.75, 0.5, 0.375, 0.25, 0.1875, 0.125, 0.09375, 0.0625} {
		ret = append(ret, frequencyEntry{Name: beatName(period), Hz: 1 / period})
	}
	names := [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	for octave := 0; octave <= 8; octave++ {
		for semitone, name := range names {
			hz := 440 * math.Pow(2, float64(octave-4)+float64(semitone-9)/12)
			ret = append(ret, frequencyEntry{Name: fmt.Sprintf("%s%d", name, octave), Hz: hz})
		}
	}
	return ret
}()

var frequencyIndex = func() map[string]int {
	ret := make(map[string]int, len(frequencyTable))
	for i, e := range frequencyTable {
		ret[cases.Fold().String(e.Name)] = i
	}
	return ret
}()

func beatName(period float64) string {
	switch {
	case period > 60:
		s := int(period)
		return fmt.Sprintf("%dm%ds", s/60, s%60)
	case period >= 1:
		return fmt.Sprintf("%gs", period)
	}
	// sub-second beats are written as a fraction of a second
	denom := 1 / period
	if d := math.Round(denom); math.Abs(d-denom) < 1e-9 {
		return fmt.Sprintf("1/%d", int(d))
	}
	return fmt.Sprintf("3/%d", int(math.Round(3*denom)))
}

// NumFrequencies returns the number of entries in the frequency table.
func NumFrequencies() int { return len(frequencyTable) }

// ValidFrequency reports whether index selects an entry of the frequency
// table.
func ValidFrequency(index int) bool { return index >= 0 && index < len(frequencyTable) }

// FrequencyHz returns the frequency of the table entry in Hz. Out of range
// indices are clamped.
func FrequencyHz(index int) float64 {
	return frequencyTable[clampIndex(index, len(frequencyTable))].Hz
}

// FrequencyName returns the display name of the table entry, e.g. "A4" or
// "1/4". Out of range indices are clamped.
func FrequencyName(index int) string {
	return frequencyTable[clampIndex(index, len(frequencyTable))].Name
}

// LookupFrequency finds a frequency table entry by name, ignoring case.
func LookupFrequency(name string) (int, bool) {
	i, ok := frequencyIndex[cases.Fold().String(name)]
	return i, ok
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
