package graph

import "slices"

// StronglyConnected returns the strongly connected components of a graph
// with n vertices, using Tarjan's algorithm. Vertices are visited in index
// order and successors in the order next returns them, so the result is
// deterministic. Components come out in reverse topological order (a
// component is listed before any component that reaches it); each
// component's members are sorted ascending.
func StronglyConnected(n int, next func(v int) []int) [][]int {
	const unvisited = -1

	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	var (
		counter    int
		stack      []int
		components [][]int
	)

	var connect func(v int)
	connect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range next(v) {
			if index[w] == unvisited {
				connect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		var comp []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		slices.Sort(comp)
		components = append(components, comp)
	}

	for v := 0; v < n; v++ {
		if index[v] == unvisited {
			connect(v)
		}
	}
	return components
}
