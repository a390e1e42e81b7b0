// Package search drives the outer widening loop (spec §4.5), fronted by a
// fast max-flow necessary-condition check before every expensive solver
// call — grounded on the teacher's Dinic's-algorithm max-flow implementation
// (flow/dinic.go), reworked here directly in LOT's own vocabulary (actors,
// nodes, maxActs) rather than over a generic *core.Graph.
package search

import "github.com/katalvlaran/lot/model"

// unreachableNodes returns the key of every node that no actor is permitted
// to cover at all (forbidden for every actor). This is a structural
// property of the model alone — true at every maxActs, so it is checked
// once, before the widening loop starts, as a fast and specific diagnostic
// distinct from ordinary widening exhaustion (a node that no actor may ever
// take can never be satisfied no matter how high maxActs is widened).
func unreachableNodes(m *model.Model) []string {
	var keys []string
	for ni, node := range m.Nodes {
		permitted := false
		for _, actor := range m.Actors {
			if !m.Forbid[model.Pair{Actor: actor, Node: ni}] {
				permitted = true
				break
			}
		}
		if !permitted {
			keys = append(keys, node.Key())
		}
	}
	return keys
}

// bipartiteFlowFeasible reports whether a maximum bipartite flow from a
// super-source through each actor (capacity maxActs, or the actor's exact
// "@" count when declared) into each non-forbidden node (capacity 1) into a
// super-sink can saturate every node. This ignores R2 (at-most-one-per-root)
// and R4 (rest-gap), so it is a NECESSARY, not sufficient, condition: a "no"
// here proves the full model is infeasible at this maxActs and lets the
// widening loop skip building (and solving) a model it already knows would
// fail; a "yes" still requires the real solve to confirm R2/R4.
func bipartiteFlowFeasible(m *model.Model, maxActs int) bool {
	nActors := len(m.Actors)
	nNodes := len(m.Nodes)
	// Graph layout: 0 = source, 1..nActors = actors, nActors+1..+nNodes = nodes,
	// nActors+nNodes+1 = sink.
	source := 0
	actorBase := 1
	nodeBase := actorBase + nActors
	sink := nodeBase + nNodes
	size := sink + 1

	cap := make([][]int, size)
	for i := range cap {
		cap[i] = make([]int, size)
	}

	for ai, actor := range m.Actors {
		c := maxActs
		if n, ok := m.Exact[actor]; ok {
			c = n
		}
		cap[source][actorBase+ai] = c
		for ni := range m.Nodes {
			if m.Forbid[model.Pair{Actor: actor, Node: ni}] {
				continue
			}
			cap[actorBase+ai][nodeBase+ni] = 1
		}
	}
	for ni := range m.Nodes {
		cap[nodeBase+ni][sink] = 1
	}

	flow := maxFlow(cap, source, sink)
	return flow >= nNodes
}

// maxFlow runs Edmonds-Karp (BFS augmenting paths) over a dense capacity
// matrix. The networks built here are small (actors+nodes+2 vertices) so the
// O(VE^2) bound is not a practical concern.
func maxFlow(cap [][]int, source, sink int) int {
	n := len(cap)
	residual := make([][]int, n)
	for i := range residual {
		residual[i] = append([]int(nil), cap[i]...)
	}

	total := 0
	for {
		parent := make([]int, n)
		for i := range parent {
			parent[i] = -1
		}
		parent[source] = source
		queue := []int{source}
		for len(queue) > 0 && parent[sink] == -1 {
			u := queue[0]
			queue = queue[1:]
			for v := 0; v < n; v++ {
				if parent[v] == -1 && residual[u][v] > 0 {
					parent[v] = u
					queue = append(queue, v)
				}
			}
		}
		if parent[sink] == -1 {
			break
		}

		bottleneck := int(^uint(0) >> 1) // max int
		for v := sink; v != source; {
			u := parent[v]
			if residual[u][v] < bottleneck {
				bottleneck = residual[u][v]
			}
			v = u
		}
		for v := sink; v != source; {
			u := parent[v]
			residual[u][v] -= bottleneck
			residual[v][u] += bottleneck
			v = u
		}
		total += bottleneck
	}
	return total
}
