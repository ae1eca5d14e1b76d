// Package sequence orders compiled declarations so that each one comes
// after the declarations it mentions.
package sequence

import (
	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/graph"
)

// Order returns decls topologically sorted by textual dependency. Each
// declaration is one block together with its type alias and inferred type
// export: the block depends on every other block exporting an identifier
// mentioned by its body or alias. Identifiers no block exports are
// ignored.
//
// Mutually dependent blocks stay adjacent in their input order. Among
// blocks that are ready at the same time, the one earliest in the input
// goes first, so the result is stable for a given input.
func Order(decls []compiler.Declaration) []compiler.Declaration {
	n := len(decls)
	if n < 2 {
		return append([]compiler.Declaration(nil), decls...)
	}

	owner := make(map[string]int)
	for i, d := range decls {
		for _, id := range d.Exports() {
			if _, ok := owner[id]; !ok {
				owner[id] = i
			}
		}
	}

	deps := make([][]int, n)
	for i, d := range decls {
		seen := make(map[int]bool)
		for _, text := range []string{d.Body, d.Alias} {
			for _, id := range compiler.Mentions(text) {
				j, ok := owner[id]
				if !ok || j == i || seen[j] {
					continue
				}
				seen[j] = true
				deps[i] = append(deps[i], j)
			}
		}
	}

	comps := graph.StronglyConnected(n, func(v int) []int { return deps[v] })
	compOf := make([]int, n)
	for ci, comp := range comps {
		for _, v := range comp {
			compOf[v] = ci
		}
	}

	// Condense: pending counts unmet dependencies, dependents is the
	// reverse edge set.
	pending := make([]int, len(comps))
	dependents := make([][]int, len(comps))
	for ci, comp := range comps {
		seen := make(map[int]bool)
		for _, v := range comp {
			for _, w := range deps[v] {
				cj := compOf[w]
				if cj == ci || seen[cj] {
					continue
				}
				seen[cj] = true
				pending[ci]++
				dependents[cj] = append(dependents[cj], ci)
			}
		}
	}

	// Members are sorted, so comp[0] is the smallest input index.
	var ready readyQueue
	for ci := range comps {
		if pending[ci] == 0 {
			ready.push(ci, comps[ci][0])
		}
	}

	out := make([]compiler.Declaration, 0, n)
	for ready.len() > 0 {
		ci := ready.pop()
		for _, v := range comps[ci] {
			out = append(out, decls[v])
		}
		for _, cj := range dependents[ci] {
			pending[cj]--
			if pending[cj] == 0 {
				ready.push(cj, comps[cj][0])
			}
		}
	}
	return out
}
