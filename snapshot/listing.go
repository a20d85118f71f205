package snapshot

import (
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/looptunes/looptunes"
)

type (
	// View is a human readable rendition of a snapshot, used by listings and
	// the YAML dump of the inspect command.
	View struct {
		Nodes []NodeView `yaml:"nodes"`
		Waves []WaveView `yaml:"waves"`
	}

	NodeView struct {
		Index     int        `yaml:"index"`
		Parent    int        `yaml:"parent"`
		Depth     int        `yaml:"depth"`
		Frequency string     `yaml:"frequency"`
		Hz        float64    `yaml:"hz"`
		Wave      int        `yaml:"wave"`
		Phase     float32    `yaml:"phase"`
		Position  [2]float32 `yaml:"position,flow"`
		Color     [4]float32 `yaml:"color,flow"`
	}

	WaveView struct {
		Index   int     `yaml:"index"`
		Min     float32 `yaml:"min"`
		Max     float32 `yaml:"max"`
		Average float32 `yaml:"average"`
	}
)

// DefaultListing prints one line per node, indented by depth.
const DefaultListing = `{{- range .Nodes -}}
{{ repeat .Depth "  " }}#{{ .Index }} {{ .Frequency }} ({{ printf "%.3f" .Hz }} Hz) wave {{ .Wave }} phase {{ printf "%.3f" .Phase }}
{{ end -}}
{{ len .Waves }} distinct {{ if eq (len .Waves) 1 }}wave{{ else }}waves{{ end }}
`

// View describes the snapshot. Parent is -1 for the root.
func (s *Snapshot) View() View {
	v := View{Nodes: make([]NodeView, len(s.Nodes)), Waves: make([]WaveView, len(s.Waves))}
	for i, r := range s.Nodes {
		nv := NodeView{
			Index:     i,
			Parent:    -1,
			Frequency: looptunes.FrequencyName(int(r.Frequency)),
			Hz:        looptunes.FrequencyHz(int(r.Frequency)),
			Wave:      int(r.Wave),
			Phase:     r.Phase,
			Position:  r.Position,
			Color:     r.Color,
		}
		if i > 0 && int(r.Parent) < i {
			nv.Parent = int(r.Parent)
			nv.Depth = v.Nodes[r.Parent].Depth + 1
		}
		v.Nodes[i] = nv
	}
	for i := range s.Waves {
		t := s.Waves[i].Table()
		wv := WaveView{Index: i, Min: t.At(0), Max: t.At(0), Average: t.Average()}
		for _, x := range t.Samples() {
			wv.Min = min(wv.Min, x)
			wv.Max = max(wv.Max, x)
		}
		v.Waves[i] = wv
	}
	return v
}

// List renders the snapshot's view with a text/template; the sprig functions
// are available. An empty text uses DefaultListing.
func (s *Snapshot) List(w io.Writer, text string) error {
	if text == "" {
		text = DefaultListing
	}
	tmpl, err := template.New("listing").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("could not parse listing template: %w", err)
	}
	if err := tmpl.Execute(w, s.View()); err != nil {
		return fmt.Errorf("could not execute listing template: %w", err)
	}
	return nil
}
