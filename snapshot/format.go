package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/looptunes/looptunes"
)

// RootParent is the parent index of the first record.
const RootParent = math.MaxUint32

type (
	// Snapshot is a flattened node subtree. Records are in depth-first order,
	// so every record's parent is an earlier record; the first record is the
	// root. Waves holds each distinct quantized table once.
	Snapshot struct {
		Nodes []Record
		Waves []Wave
	}

	// Record is one node of a snapshot. Position is relative to the parent;
	// the root's position is replaced by the insertion point on paste.
	Record struct {
		Parent    uint32
		Frequency uint32
		Wave      uint32
		Phase     float32
		Position  [2]float32
		Color     [4]float32
	}

	// Wave is a wave table quantized to 16 bits per sample.
	Wave [looptunes.WaveLength]uint16
)

var (
	recordSize = binary.Size(Record{})
	waveSize   = binary.Size(Wave{})
)

// Quantize converts a wave table to 16-bit fixed point.
func Quantize(w *looptunes.WaveTable) Wave {
	var ret Wave
	for i := range ret {
		v := math.Round(float64(w.At(i)) * 65536)
		ret[i] = uint16(max(0, min(v, 65535)))
	}
	return ret
}

// Table converts a quantized wave back to a wave table.
func (w *Wave) Table() *looptunes.WaveTable {
	samples := make([]float32, looptunes.WaveLength)
	for i, q := range w {
		samples[i] = float32(q) / 65536
	}
	t, _ := looptunes.WaveTableFromSamples(samples)
	return t
}

// MarshalBinary encodes the snapshot as little-endian binary: the node count
// and records, then the wave count and waves.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(8 + len(s.Nodes)*recordSize + len(s.Waves)*waveSize)
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(s.Nodes))); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.Nodes); err != nil {
		return nil, fmt.Errorf("could not write node records: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(s.Waves))); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.Waves); err != nil {
		return nil, fmt.Errorf("could not write waves: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes data written by MarshalBinary. Counts are checked
// against the remaining input before anything is allocated.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: reading node count: %v", ErrMalformed, err)
	}
	if int64(count)*int64(recordSize) > int64(r.Len()) {
		return fmt.Errorf("%w: %d node records do not fit in %d bytes", ErrMalformed, count, r.Len())
	}
	nodes := make([]Record, count)
	if err := binary.Read(r, binary.LittleEndian, nodes); err != nil {
		return fmt.Errorf("%w: reading node records: %v", ErrMalformed, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: reading wave count: %v", ErrMalformed, err)
	}
	if int64(count)*int64(waveSize) != int64(r.Len()) {
		return fmt.Errorf("%w: %d waves do not match %d remaining bytes", ErrMalformed, count, r.Len())
	}
	waves := make([]Wave, count)
	if err := binary.Read(r, binary.LittleEndian, waves); err != nil {
		return fmt.Errorf("%w: reading waves: %v", ErrMalformed, err)
	}
	s.Nodes, s.Waves = nodes, waves
	return nil
}

// Validate checks the invariants that paste relies on: a root first, parents
// before children, and every index in range.
func (s *Snapshot) Validate() error {
	if len(s.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrMalformed)
	}
	for i, r := range s.Nodes {
		switch {
		case i == 0 && r.Parent != RootParent:
			return fmt.Errorf("%w: first record is not a root", ErrMalformed)
		case i > 0 && r.Parent >= uint32(i):
			return fmt.Errorf("%w: record %d has parent %d, which is not an earlier record", ErrMalformed, i, r.Parent)
		case !looptunes.ValidFrequency(int(r.Frequency)):
			return fmt.Errorf("%w: record %d has frequency %d", ErrMalformed, i, r.Frequency)
		case int64(r.Wave) >= int64(len(s.Waves)):
			return fmt.Errorf("%w: record %d refers to wave %d of %d", ErrMalformed, i, r.Wave, len(s.Waves))
		case math.IsNaN(float64(r.Phase)) || math.IsInf(float64(r.Phase), 0):
			return fmt.Errorf("%w: record %d has phase %v", ErrMalformed, i, r.Phase)
		}
	}
	return nil
}
