package hydro

// cell is a queued grid location keyed by the elevation it had when pushed.
type cell struct {
	z    float64
	i, j int
}

// floodQueue pops the lowest elevation first; ties go to the smaller i,
// then the smaller j, so traversal order is fully reproducible.
type floodQueue []cell

func (q floodQueue) Len() int { return len(q) }

func (q floodQueue) Less(a, b int) bool {
	if q[a].z != q[b].z {
		return q[a].z < q[b].z
	}
	if q[a].i != q[b].i {
		return q[a].i < q[b].i
	}
	return q[a].j < q[b].j
}

func (q floodQueue) Swap(a, b int) { q[a], q[b] = q[b], q[a] }

func (q *floodQueue) Push(x any) { *q = append(*q, x.(cell)) }

func (q *floodQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
