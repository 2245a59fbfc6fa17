package network

// PairCount is the number of neighbours shared by an adjacent pair.
type PairCount struct {
	I     int
	J     int
	Count int
}

// NeighborOverlap counts |N(i) ∩ N(j)| for every pair with A[i,j] = 1, where
// N is the undirected neighbour set. Only pairs from the adjacency are
// examined, so the cost is O(E * average degree). Pairs sharing no neighbour
// are omitted. Results are ordered by (I, J).
func NeighborOverlap(adj *Adjacency, neighbors [][]int) []PairCount {
	var out []PairCount
	for i, row := range adj.Out {
		for _, j := range row {
			if c := intersectCount(neighbors[i], neighbors[j]); c > 0 {
				out = append(out, PairCount{I: i, J: j, Count: c})
			}
		}
	}
	return out
}

// intersectCount merges two ascending slices.
func intersectCount(a, b []int) int {
	count := 0
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			count++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return count
}
