package classifier

import (
	"fmt"
	"math"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// model is a binary classifier over standardized feature rows.
type model interface {
	fit(x [][]float64, y []int) error
	predictProba(x []float64) float64
}

// newModel is the factory for every Kind. Adding a Kind without a case here
// fails at the first Train call.
func newModel(kind Kind, opts Options) (model, error) {
	switch kind {
	case KindLogistic:
		return newLogisticRegression(opts), nil
	case KindDecisionTree:
		return newDecisionTree(opts.TreeMaxDepth, 0, opts.Seed), nil
	case KindRandomForest:
		return newRandomForest(opts), nil
	case KindSVM:
		return newLinearSVM(opts), nil
	case KindKNN:
		return newKNN(opts.KNNNeighbors), nil
	case KindMLP:
		return newMLP(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidClassifierKind, kind)
	}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
