package sequence

import "container/heap"

type readyItem struct {
	comp int
	rank int
}

// readyQueue pops the component with the smallest rank first.
type readyQueue struct {
	items readyHeap
}

func (q *readyQueue) push(comp, rank int) {
	heap.Push(&q.items, readyItem{comp: comp, rank: rank})
}

func (q *readyQueue) pop() int {
	return heap.Pop(&q.items).(readyItem).comp
}

func (q *readyQueue) len() int { return q.items.Len() }

type readyHeap []readyItem

func (h readyHeap) Len() int           { return len(h) }
func (h readyHeap) Less(i, j int) bool { return h[i].rank < h[j].rank }
func (h readyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *readyHeap) Push(x any) { *h = append(*h, x.(readyItem)) }

func (h *readyHeap) Pop() any {
	old := *h
	it := old[len(old)-1]
	*h = old[:len(old)-1]
	return it
}
