package classifier

import (
	"math/rand"
	"sort"
)

type treeNode struct {
	leaf      bool
	prob      float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// decisionTree is a CART classifier split on gini impurity. Leaves predict
// the fraction of positive samples that reached them.
type decisionTree struct {
	maxDepth    int
	maxFeatures int
	minSplit    int
	rng         *rand.Rand
	root        *treeNode
}

// newDecisionTree builds an unfitted tree. maxDepth 0 grows until leaves are
// pure; maxFeatures 0 considers every feature at each split.
func newDecisionTree(maxDepth, maxFeatures int, seed int64) *decisionTree {
	return &decisionTree{
		maxDepth:    maxDepth,
		maxFeatures: maxFeatures,
		minSplit:    2,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (t *decisionTree) fit(x [][]float64, y []int) error {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(x, y, idx, 0)
	return nil
}

func (t *decisionTree) predictProba(x []float64) float64 {
	node := t.root
	for node != nil && !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	if node == nil {
		return 0
	}
	return node.prob
}

func (t *decisionTree) build(x [][]float64, y []int, idx []int, depth int) *treeNode {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	n := len(idx)
	leaf := &treeNode{leaf: true, prob: float64(pos) / float64(n)}
	if pos == 0 || pos == n || n < t.minSplit || (t.maxDepth > 0 && depth >= t.maxDepth) {
		return leaf
	}

	feature, threshold, ok := t.bestSplit(x, y, idx, pos)
	if !ok {
		return leaf
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.build(x, y, left, depth+1),
		right:     t.build(x, y, right, depth+1),
	}
}

func (t *decisionTree) candidateFeatures(width int) []int {
	if t.maxFeatures <= 0 || t.maxFeatures >= width {
		all := make([]int, width)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return t.rng.Perm(width)[:t.maxFeatures]
}

func (t *decisionTree) bestSplit(x [][]float64, y []int, idx []int, pos int) (int, float64, bool) {
	n := len(idx)
	bestImpurity := gini(pos, n)
	bestFeature, bestThreshold := -1, 0.0
	sorted := make([]int, n)

	for _, f := range t.candidateFeatures(len(x[idx[0]])) {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		leftPos := 0
		for k := 0; k < n-1; k++ {
			leftPos += y[sorted[k]]
			lo, hi := x[sorted[k]][f], x[sorted[k+1]][f]
			if lo == hi {
				continue
			}
			leftN := k + 1
			rightN := n - leftN
			impurity := (float64(leftN)*gini(leftPos, leftN) + float64(rightN)*gini(pos-leftPos, rightN)) / float64(n)
			if impurity < bestImpurity-1e-12 {
				bestImpurity = impurity
				bestFeature = f
				bestThreshold = (lo + hi) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}
