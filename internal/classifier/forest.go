package classifier

import (
	"math"
	"math/rand"
)

// randomForest averages bootstrap-trained trees that each consider a random
// subset of features per split.
type randomForest struct {
	trees []*decisionTree
	size  int
	depth int
	rng   *rand.Rand
}

func newRandomForest(opts Options) *randomForest {
	return &randomForest{
		size:  opts.ForestTrees,
		depth: opts.TreeMaxDepth,
		rng:   rand.New(rand.NewSource(opts.Seed)),
	}
}

func (f *randomForest) fit(x [][]float64, y []int) error {
	n := len(x)
	maxFeatures := int(math.Max(1, math.Floor(math.Sqrt(float64(len(x[0]))))))
	f.trees = make([]*decisionTree, 0, f.size)

	sampleX := make([][]float64, n)
	sampleY := make([]int, n)
	for i := 0; i < f.size; i++ {
		for k := 0; k < n; k++ {
			j := f.rng.Intn(n)
			sampleX[k] = x[j]
			sampleY[k] = y[j]
		}
		tree := newDecisionTree(f.depth, maxFeatures, f.rng.Int63())
		if err := tree.fit(sampleX, sampleY); err != nil {
			return err
		}
		f.trees = append(f.trees, tree)
	}
	return nil
}

func (f *randomForest) predictProba(x []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predictProba(x)
	}
	return sum / float64(len(f.trees))
}
