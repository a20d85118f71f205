package snapshot

import (
	"errors"
	"testing"

	"github.com/looptunes/looptunes"
)

func TestDecompressedSizeLimit(t *testing.T) {
	s := looptunes.NewScene()
	root, _ := s.Add(looptunes.NewNode(), looptunes.NoNode)
	n := looptunes.NewNode()
	n.Wave = looptunes.NewWaveTable(looptunes.Square)
	s.Add(n, root)
	text, err := Marshal(s, root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := decode(text, 1000); !errors.Is(err, ErrTooLarge) {
		t.Errorf("got %v, want ErrTooLarge", err)
	}
	if _, err := decode(text, 1<<20); err != nil {
		t.Errorf("decoding within the limit failed: %v", err)
	}
}

func TestQuantizeBounds(t *testing.T) {
	w := looptunes.NewWaveTable(func(x float32) float32 { return x })
	w.Set(0, 1)
	q := Quantize(w)
	if q[0] != 65535 || q[1] != 64 {
		t.Errorf("quantized %d %d", q[0], q[1])
	}
	if Quantize(q.Table()) != q {
		t.Error("requantizing a decoded table changed it")
	}
}

func TestUnmarshalRejectsShortInput(t *testing.T) {
	s := &Snapshot{Nodes: []Record{{Parent: RootParent}}, Waves: []Wave{{}}}
	data, err := s.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	for _, cut := range []int{0, 3, 10, len(data) - 1} {
		if err := new(Snapshot).UnmarshalBinary(data[:cut]); !errors.Is(err, ErrMalformed) {
			t.Errorf("cut at %d: got %v", cut, err)
		}
	}
	if err := new(Snapshot).UnmarshalBinary(append(data, 0)); !errors.Is(err, ErrMalformed) {
		t.Errorf("trailing byte: got %v", err)
	}
}
