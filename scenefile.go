package looptunes

import (
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

type (
	// SceneFile is the human editable description of a scene, read from
	// .yml files. Parents are referred to by name and must be listed before
	// their children.
	SceneFile struct {
		Nodes []SceneFileNode `yaml:"nodes"`
	}

	SceneFileNode struct {
		Name      string     `yaml:"name"`
		Parent    string     `yaml:"parent,omitempty"`
		Frequency string     `yaml:"frequency"`
		Wave      string     `yaml:"wave"`
		Phase     float32    `yaml:"phase,omitempty"`
		Playing   bool       `yaml:"playing,omitempty"`
		Position  [2]float32 `yaml:"position,flow"`
		Color     [4]float32 `yaml:"color,flow"`
	}
)

// ReadScene parses a YAML scene description and builds the scene.
func ReadScene(r io.Reader) (*Scene, error) {
	var f SceneFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("could not parse scene file: %w", err)
	}
	return f.Build()
}

// Build creates the scene described by the file.
func (f *SceneFile) Build() (*Scene, error) {
	s := NewScene()
	byName := map[string]NodeID{}
	for i, fn := range f.Nodes {
		freq, ok := LookupFrequency(fn.Frequency)
		if !ok {
			return nil, fmt.Errorf("node %d (%s): unknown frequency %q", i, fn.Name, fn.Frequency)
		}
		waveName := fn.Wave
		if waveName == "" {
			waveName = "sine"
		}
		gen, ok := LookupGenerator(waveName)
		if !ok {
			return nil, fmt.Errorf("node %d (%s): unknown wave %q", i, fn.Name, fn.Wave)
		}
		parent := NoNode
		if fn.Parent != "" {
			if parent, ok = byName[fn.Parent]; !ok {
				return nil, fmt.Errorf("node %d (%s): parent %q not defined before it", i, fn.Name, fn.Parent)
			}
		}
		color := Color{fn.Color[0], fn.Color[1], fn.Color[2], fn.Color[3]}
		if fn.Color == [4]float32{} {
			color = Color{1, 1, 1, 1}
		}
		id, err := s.Add(Node{
			Name:      fn.Name,
			Frequency: freq,
			Phase:     fn.Phase,
			Wave:      NewWaveTable(gen),
			Playing:   fn.Playing,
			Color:     color,
			Position:  Position{fn.Position[0], fn.Position[1]},
		}, parent)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, fn.Name, err)
		}
		if fn.Name != "" {
			byName[fn.Name] = id
		}
	}
	return s, nil
}

// DemoScene returns the scene loaded when no scene file is given: a slow sine
// beat modulating a triangle, a triple-saw and a hashed noise voice.
func DemoScene() *Scene {
	s := NewScene()
	beat, _ := LookupFrequency("1/2")
	a3, _ := LookupFrequency("A3")
	e4, _ := LookupFrequency("E4")
	c5, _ := LookupFrequency("C5")
	root, _ := s.Add(Node{Name: "beat", Frequency: beat, Wave: NewWaveTable(Sine), Color: Color{1, 1, 1, 1}}, NoNode)
	s.Add(Node{Name: "triangle", Frequency: a3, Wave: NewWaveTable(Triangle), Color: Color{0, 1, 1, 1}, Position: Position{0, 0}}, root)
	s.Add(Node{Name: "saw3", Frequency: e4, Phase: 0.25, Wave: NewWaveTable(func(x float32) float32 { return fract32(x * 3) }), Color: Color{1, 0, 1, 1}, Position: Position{30, 30}}, root)
	s.Add(Node{Name: "hash", Frequency: c5, Phase: 0.5, Wave: NewWaveTable(func(x float32) float32 { return fract32(fract32(x*x) * 12345) }), Color: Color{1, 1, 0, 1}, Position: Position{-20, 20}}, root)
	return s
}

func fract32(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}
