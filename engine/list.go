package engine

import (
	"slices"

	"github.com/looptunes/looptunes"
)

// NodeInfo describes one node for listings.
type NodeInfo struct {
	ID        looptunes.NodeID `json:"id" yaml:"id"`
	Parent    looptunes.NodeID `json:"parent,omitempty" yaml:"parent,omitempty"`
	Name      string           `json:"name,omitempty" yaml:"name,omitempty"`
	Depth     int              `json:"depth" yaml:"depth"`
	Frequency string           `json:"frequency" yaml:"frequency"`
	Hz        float64          `json:"hz" yaml:"hz"`
	Phase     float32          `json:"phase" yaml:"phase"`
	Playing   bool             `json:"playing" yaml:"playing"`
	Children  int              `json:"children" yaml:"children"`
}

// Describe lists the nodes of the scene tree by tree, depth first.
func Describe(s *looptunes.Scene) []NodeInfo {
	ret := make([]NodeInfo, 0, s.Len())
	type item struct {
		id    looptunes.NodeID
		depth int
	}
	var stack []item
	for _, r := range slices.Backward(s.Roots()) {
		stack = append(stack, item{r, 0})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, _ := s.Node(it.id)
		children := s.Children(it.id)
		ret = append(ret, NodeInfo{
			ID:        it.id,
			Parent:    s.Parent(it.id),
			Name:      n.Name,
			Depth:     it.depth,
			Frequency: looptunes.FrequencyName(n.Frequency),
			Hz:        n.Hz(),
			Phase:     n.Phase,
			Playing:   n.Playing,
			Children:  len(children),
		})
		for _, c := range slices.Backward(children) {
			stack = append(stack, item{c, it.depth + 1})
		}
	}
	return ret
}
