// Package snapshot copies node subtrees to and from clipboard text.
//
// The text is the binary form of a Snapshot, compressed with zstd and
// encoded as URL-safe base64 without padding:
//
//	base64url(zstd(u32 n, n × record, u32 m, m × [1024]u16))
//
// A record is u32 parent, u32 frequency, u32 wave, f32 phase, f32 x, f32 y,
// f32 r, f32 g, f32 b, f32 a, all little endian.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/looptunes/looptunes"
)

// MaxDecompressedSize bounds the memory a pasted snapshot may expand to.
const MaxDecompressedSize = 64 << 20

// Splicer receives a fully built subtree in one step.
type Splicer interface {
	Splice(sub *looptunes.Scene) []looptunes.NodeID
}

// Take flattens the subtree rooted at root. Nodes are numbered in depth-first
// order, children in the order the graph lists them, and identical quantized
// tables are stored once.
func Take(g looptunes.Graph, root looptunes.NodeID) (*Snapshot, error) {
	if _, ok := g.Node(root); !ok {
		return nil, fmt.Errorf("%w: node %d does not exist", ErrEmpty, root)
	}
	type item struct {
		id     looptunes.NodeID
		parent uint32
	}
	s := &Snapshot{}
	waveIndex := map[Wave]uint32{}
	stack := []item{{root, RootParent}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := g.Node(it.id)
		if !ok {
			continue
		}
		q := Quantize(n.Wave)
		wi, ok := waveIndex[q]
		if !ok {
			wi = uint32(len(s.Waves))
			waveIndex[q] = wi
			s.Waves = append(s.Waves, q)
		}
		index := uint32(len(s.Nodes))
		s.Nodes = append(s.Nodes, Record{
			Parent:    it.parent,
			Frequency: uint32(n.Frequency),
			Wave:      wi,
			Phase:     n.Phase,
			Position:  [2]float32{n.Position.X, n.Position.Y},
			Color:     [4]float32{n.Color.R, n.Color.G, n.Color.B, n.Color.A},
		})
		// pushed in reverse so that children are visited in listed order
		for _, c := range slices.Backward(g.Children(it.id)) {
			stack = append(stack, item{c, index})
		}
	}
	return s, nil
}

// Encode turns the snapshot into clipboard text.
func (s *Snapshot) Encode() (string, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("could not serialize snapshot: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("could not create compressor: %w", err)
	}
	compressed := enc.EncodeAll(data, nil)
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("could not close compressor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(compressed), nil
}

// Decode parses clipboard text into a validated snapshot.
func Decode(text string) (*Snapshot, error) {
	return decode(text, MaxDecompressedSize)
}

func decode(text string, limit int64) (*Snapshot, error) {
	text = strings.TrimRight(strings.TrimSpace(text), "=")
	compressed, err := base64.RawURLEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	dec, err := zstd.NewReader(bytes.NewReader(compressed),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(limit)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	defer dec.Close()
	data, err := io.ReadAll(io.LimitReader(dec, limit+1))
	switch {
	case errors.Is(err, zstd.ErrDecoderSizeExceeded),
		errors.Is(err, zstd.ErrWindowSizeExceeded),
		errors.Is(err, zstd.ErrFrameSizeExceeded):
		return nil, fmt.Errorf("%w: %v", ErrTooLarge, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	case int64(len(data)) > limit:
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	s := &Snapshot{}
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Build creates the snapshot's subtree in a new scene, off any live tree. The
// root is placed at `at`; the other nodes keep their relative positions.
// Nodes that shared a quantized table share one WaveTable.
func (s *Snapshot) Build(at looptunes.Position) (*looptunes.Scene, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sub := looptunes.NewScene()
	tables := make([]*looptunes.WaveTable, len(s.Waves))
	ids := make([]looptunes.NodeID, len(s.Nodes))
	for i, r := range s.Nodes {
		if tables[r.Wave] == nil {
			tables[r.Wave] = s.Waves[r.Wave].Table()
		}
		parent, pos := looptunes.NoNode, at
		if i > 0 {
			parent = ids[r.Parent]
			pos = looptunes.Position{X: r.Position[0], Y: r.Position[1]}
		}
		id, err := sub.Add(looptunes.Node{
			Frequency: int(r.Frequency),
			Phase:     r.Phase,
			Wave:      tables[r.Wave],
			Color:     looptunes.Color{R: r.Color[0], G: r.Color[1], B: r.Color[2], A: r.Color[3]},
			Position:  pos,
		}, parent)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
		ids[i] = id
	}
	return sub, nil
}

// Marshal takes a snapshot of the subtree at root and encodes it as text.
func Marshal(g looptunes.Graph, root looptunes.NodeID) (string, error) {
	s, err := Take(g, root)
	if err != nil {
		return "", err
	}
	return s.Encode()
}

// Copy is Marshal for interactive use: failures are logged and produce an
// empty string.
func Copy(g looptunes.Graph, root looptunes.NodeID) string {
	text, err := Marshal(g, root)
	if err != nil {
		slog.Error("copy failed", "root", root, "err", err)
		return ""
	}
	return text
}

// Paste decodes text and splices the subtree into dst with its root at `at`.
// The destination is only touched once the whole subtree has been built, so
// a failed paste leaves it unchanged. Returns the id of the new root.
func Paste(text string, at looptunes.Position, dst Splicer) (looptunes.NodeID, error) {
	s, err := Decode(text)
	if err != nil {
		return looptunes.NoNode, err
	}
	sub, err := s.Build(at)
	if err != nil {
		return looptunes.NoNode, err
	}
	roots := dst.Splice(sub)
	if len(roots) == 0 {
		return looptunes.NoNode, fmt.Errorf("%w: no root", ErrMalformed)
	}
	return roots[0], nil
}
