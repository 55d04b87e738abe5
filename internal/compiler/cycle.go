package compiler

import (
	"fmt"
	"slices"
	"strings"
)

// dependencyGraph maps a definition name to the names its expression uses.
type dependencyGraph map[string][]string

// nodes returns the graph's names in sorted order.
func (g dependencyGraph) nodes() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// findCycles returns one path per cycle in the graph, e.g. ["a", "b", "a"].
// A self-reference yields ["a", "a"]. Output is deterministic.
func findCycles(graph dependencyGraph) [][]string {
	var cycles [][]string
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || (len(scc) == 1 && slices.Contains(graph[scc[0]], scc[0])) {
			cycles = append(cycles, cyclePath(scc, graph))
		}
	}
	slices.SortFunc(cycles, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})
	return cycles
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Single-node SCCs without self-loops are not cycles.
func tarjanSCC(graph dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range graph.nodes() {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cyclePath returns the shortest cycle through the smallest name of the SCC,
// starting and ending at that name.
func cyclePath(scc []string, graph dependencyGraph) []string {
	start := slices.Min(scc)
	if slices.Contains(graph[start], start) {
		return []string{start, start}
	}

	members := make(map[string]bool, len(scc))
	for _, name := range scc {
		members[name] = true
	}

	// Breadth-first search from start back to start.
	prev := map[string]string{}
	queue := []string{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range graph[v] {
			if !members[w] {
				continue
			}
			if w == start {
				var back []string
				for n := v; n != start; n = prev[n] {
					back = append(back, n)
				}
				slices.Reverse(back)
				path := append([]string{start}, back...)
				return append(path, start)
			}
			if _, seen := prev[w]; !seen {
				prev[w] = v
				queue = append(queue, w)
			}
		}
	}

	// Unreachable for a strongly connected component.
	sorted := slices.Sorted(slices.Values(scc))
	return append(sorted, start)
}

// formatCycle renders a cycle path as "a → b → a".
func formatCycle(path []string) string {
	return strings.Join(path, " → ")
}

// resolutionOrder returns the names in dependency order: every name comes
// after the names it uses. Ties are broken alphabetically.
// The graph must be acyclic.
func resolutionOrder(graph dependencyGraph) []string {
	var (
		order   []string
		visited = make(map[string]bool)
		visit   func(string)
	)
	visit = func(v string) {
		if visited[v] {
			return
		}
		visited[v] = true
		for _, w := range graph[v] {
			if _, known := graph[w]; known {
				visit(w)
			}
		}
		order = append(order, v)
	}

	for _, name := range graph.nodes() {
		visit(name)
	}
	return order
}

func cycleMessage(path []string) string {
	return fmt.Sprintf("definition cycle: %s", formatCycle(path))
}
