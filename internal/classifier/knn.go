package classifier

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// knn predicts the share of positive labels among the k closest training
// rows by Euclidean distance. Equal distances keep training order.
type knn struct {
	k int
	x [][]float64
	y []int
}

func newKNN(k int) *knn {
	if k <= 0 {
		k = 3
	}
	return &knn{k: k}
}

func (m *knn) fit(x [][]float64, y []int) error {
	m.x = x
	m.y = y
	return nil
}

func (m *knn) predictProba(x []float64) float64 {
	type neighbor struct {
		dist  float64
		label int
	}
	neighbors := make([]neighbor, len(m.x))
	for i, row := range m.x {
		neighbors[i] = neighbor{dist: floats.Distance(row, x, 2), label: m.y[i]}
	}
	sort.SliceStable(neighbors, func(a, b int) bool { return neighbors[a].dist < neighbors[b].dist })

	k := min(m.k, len(neighbors))
	if k == 0 {
		return 0
	}
	pos := 0
	for _, n := range neighbors[:k] {
		pos += n.label
	}
	return float64(pos) / float64(k)
}
