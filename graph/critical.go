package graph

import (
	"github.com/juju/errors"
	"github.com/warriorguo/topoflow/types"
)

type CriticalPath struct {
	Path   []string
	Length float64
}

/**
 * FindCriticalPath computes the longest weighted source-to-sink path via
 * dynamic programming over the topological order:
 *
 *   finish[v] = duration(v) + max over incoming u→v of (finish[u] + weight(u,v))
 *
 * durations supplies per-node cost estimates; missing entries count as
 * zero, so a nil map degrades to pure edge-weight cost.
 */
func FindCriticalPath(g *types.Graph, durations map[string]float64) (*CriticalPath, error) {
	topo, err := TopologicalSort(g.NodeIDs, g.Edges)
	if err != nil {
		return nil, errors.Trace(err)
	}

	incoming := make(map[string][]*types.Edge)
	for _, e := range g.Edges {
		if !e.IsDirected() {
			continue
		}
		incoming[e.To] = append(incoming[e.To], e)
	}

	finish := make(map[string]float64, len(g.NodeIDs))
	pred := make(map[string]string, len(g.NodeIDs))

	for _, id := range topo.Order {
		best := 0.0
		bestPred := ""
		for _, e := range incoming[id] {
			cost := finish[e.From] + e.EffectiveWeight()
			if bestPred == "" || cost > best {
				best = cost
				bestPred = e.From
			}
		}
		finish[id] = best + durations[id]
		if bestPred != "" {
			pred[id] = bestPred
		}
	}

	cp := &CriticalPath{}
	end := ""
	for _, id := range topo.Order {
		if finish[id] > cp.Length || end == "" {
			cp.Length = finish[id]
			end = id
		}
	}
	for id := end; id != ""; id = pred[id] {
		cp.Path = append([]string{id}, cp.Path...)
	}
	return cp, nil
}
