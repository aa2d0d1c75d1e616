package classifier

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// linearSVM minimizes the regularized hinge loss with shuffled SGD, then
// calibrates decision values into probabilities with a Platt sigmoid.
type linearSVM struct {
	epochs       int
	learningRate float64
	lambda       float64
	rng          *rand.Rand
	weights      []float64
	bias         float64
	plattA       float64
	plattB       float64
}

func newLinearSVM(opts Options) *linearSVM {
	return &linearSVM{
		epochs:       opts.Epochs,
		learningRate: 0.01,
		lambda:       1e-4,
		rng:          rand.New(rand.NewSource(opts.Seed)),
	}
}

func (m *linearSVM) fit(x [][]float64, y []int) error {
	m.weights = make([]float64, len(x[0]))
	m.bias = 0
	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < m.epochs; epoch++ {
		m.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			label := -1.0
			if y[i] == 1 {
				label = 1
			}
			margin := label * m.decision(x[i])
			floats.Scale(1-m.learningRate*m.lambda, m.weights)
			if margin < 1 {
				floats.AddScaled(m.weights, m.learningRate*label, x[i])
				m.bias += m.learningRate * label
			}
		}
	}

	m.calibrate(x, y)
	return nil
}

// calibrate fits p = sigmoid(a*f + b) to the training decision values.
func (m *linearSVM) calibrate(x [][]float64, y []int) {
	decisions := make([]float64, len(x))
	for i, row := range x {
		decisions[i] = m.decision(row)
	}
	m.plattA, m.plattB = 1, 0
	n := float64(len(x))
	for iter := 0; iter < 200; iter++ {
		gradA, gradB := 0.0, 0.0
		for i, f := range decisions {
			diff := sigmoid(m.plattA*f+m.plattB) - float64(y[i])
			gradA += diff * f
			gradB += diff
		}
		m.plattA -= 0.5 * gradA / n
		m.plattB -= 0.5 * gradB / n
	}
}

func (m *linearSVM) decision(x []float64) float64 {
	return floats.Dot(m.weights, x) + m.bias
}

func (m *linearSVM) predictProba(x []float64) float64 {
	return sigmoid(m.plattA*m.decision(x) + m.plattB)
}
