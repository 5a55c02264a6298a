package systems

import (
	"container/heap"

	"deskmate-server/internal/domain"
)

// pathNode - временный узел поиска A*.
type pathNode struct {
	cell   domain.Cell
	g      int // стоимость от старта
	h      int // манхэттенская оценка до цели
	f      int // g + h
	parent *pathNode
	index  int // позиция в куче, -1 после извлечения
}

// pathQueue - min-куча по f. Ничьи решает порядок кучи.
type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	node := x.(*pathNode)
	node.index = n
	*pq = append(*pq, node)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// update понижает стоимость узла, уже лежащего в открытом множестве.
func (pq *pathQueue) update(node *pathNode, g int, parent *pathNode) {
	node.g = g
	node.f = g + node.h
	node.parent = parent
	heap.Fix(pq, node.index)
}
