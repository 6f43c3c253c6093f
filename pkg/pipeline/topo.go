package pipeline

import "github.com/pkg/errors"

// TopologicalOrder returns the step uuids so that every step comes after its
// incoming connections. Ties are broken by insertion order.
func (p *Pipeline) TopologicalOrder() ([]string, error) {
	outgoing := p.DeriveOutgoing()

	indegree := make(map[string]int, len(p.order))
	for _, uuid := range p.order {
		indegree[uuid] = len(p.steps[uuid].IncomingConnections)
	}

	order := make([]string, 0, len(p.order))
	ready := make([]string, 0, len(p.order))

	for _, uuid := range p.order {
		if indegree[uuid] == 0 {
			ready = append(ready, uuid)
		}
	}

	for len(ready) > 0 {
		uuid := ready[0]
		ready = ready[1:]
		order = append(order, uuid)

		for _, next := range outgoing[uuid] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(order) != len(p.order) {
		return nil, errors.Wrap(ErrCycleInducing, "pipeline is not acyclic")
	}

	return order, nil
}
