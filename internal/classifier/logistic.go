package classifier

import (
	"gonum.org/v1/gonum/floats"
)

// logisticRegression is fit with full-batch gradient descent and an L2 penalty.
type logisticRegression struct {
	learningRate float64
	iterations   int
	l2           float64
	weights      []float64
	bias         float64
}

func newLogisticRegression(opts Options) *logisticRegression {
	return &logisticRegression{
		learningRate: 0.5,
		iterations:   opts.Iterations,
		l2:           1e-4,
	}
}

func (m *logisticRegression) fit(x [][]float64, y []int) error {
	n := float64(len(x))
	width := len(x[0])
	m.weights = make([]float64, width)
	m.bias = 0
	grad := make([]float64, width)

	for iter := 0; iter < m.iterations; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i, row := range x {
			diff := sigmoid(floats.Dot(m.weights, row)+m.bias) - float64(y[i])
			floats.AddScaled(grad, diff, row)
			gradBias += diff
		}
		floats.Scale(1/n, grad)
		floats.AddScaled(grad, m.l2, m.weights)
		floats.AddScaled(m.weights, -m.learningRate, grad)
		m.bias -= m.learningRate * gradBias / n
	}
	return nil
}

func (m *logisticRegression) predictProba(x []float64) float64 {
	return sigmoid(floats.Dot(m.weights, x) + m.bias)
}
