package pipeline

import "github.com/askiada/pipeline-editor/pkg/pipeline/model"

type color int

const (
	white color = iota
	grey
	black
)

// WouldCreateCycle reports whether adding the edge source -> target would make
// the graph cyclic. The edge is only added to a transient adjacency view, the
// store is never modified. A self loop is always a cycle.
func (p *Pipeline) WouldCreateCycle(source, target string) bool {
	if source == target {
		return true
	}

	outgoing := p.DeriveOutgoing()
	if _, ok := outgoing[source]; ok && !p.HasConnection(source, target) {
		outgoing[source] = append(outgoing[source], target)
	}

	return hasBackEdge(p.order, outgoing)
}

// HasCycle reports whether the stored graph contains a cycle.
func (p *Pipeline) HasCycle() bool {
	return hasBackEdge(p.order, p.DeriveOutgoing())
}

// hasBackEdge runs a depth first search from every white node. Meeting a grey
// node again means the walk found a back edge.
func hasBackEdge(nodes []string, outgoing map[string][]string) bool {
	colors := make(map[string]color, len(nodes))

	var visit func(node string) bool
	visit = func(node string) bool {
		colors[node] = grey

		for _, next := range outgoing[node] {
			switch colors[next] {
			case grey:
				return true
			case white:
				if visit(next) {
					return true
				}
			case black:
			}
		}

		colors[node] = black

		return false
	}

	for _, node := range nodes {
		if colors[node] != white {
			continue
		}

		if visit(node) {
			return true
		}
	}

	return false
}

// CycleCheck evaluates a candidate connection against the store rules, without
// applying it. It returns ErrSelfLoop, ErrDuplicateEdge, ErrCycleInducing or
// ErrStepNotFound, or nil when the connection can be added.
func (p *Pipeline) CycleCheck(conn model.Connection) error {
	if _, ok := p.steps[conn.Source]; !ok {
		return ErrStepNotFound
	}

	if _, ok := p.steps[conn.Target]; !ok {
		return ErrStepNotFound
	}

	switch {
	case conn.Source == conn.Target:
		return ErrSelfLoop
	case p.HasConnection(conn.Source, conn.Target):
		return ErrDuplicateEdge
	case p.WouldCreateCycle(conn.Source, conn.Target):
		return ErrCycleInducing
	}

	return nil
}
