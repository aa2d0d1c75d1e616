package classifier

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// mlp is a feed-forward network with one tanh hidden layer and a sigmoid
// output, trained with per-sample SGD on cross-entropy loss.
type mlp struct {
	hidden       int
	epochs       int
	learningRate float64
	rng          *rand.Rand

	w1 [][]float64 // hidden x input
	b1 []float64
	w2 []float64
	b2 float64
}

func newMLP(opts Options) *mlp {
	return &mlp{
		hidden:       opts.HiddenUnits,
		epochs:       opts.Epochs,
		learningRate: 0.05,
		rng:          rand.New(rand.NewSource(opts.Seed)),
	}
}

func (m *mlp) fit(x [][]float64, y []int) error {
	inputs := len(x[0])
	limit := math.Sqrt(6 / float64(inputs+m.hidden))
	m.w1 = make([][]float64, m.hidden)
	for h := range m.w1 {
		m.w1[h] = make([]float64, inputs)
		for j := range m.w1[h] {
			m.w1[h][j] = (m.rng.Float64()*2 - 1) * limit
		}
	}
	m.b1 = make([]float64, m.hidden)
	m.w2 = make([]float64, m.hidden)
	for h := range m.w2 {
		m.w2[h] = (m.rng.Float64()*2 - 1) * limit
	}
	m.b2 = 0

	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	activations := make([]float64, m.hidden)
	for epoch := 0; epoch < m.epochs; epoch++ {
		m.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			out := m.forward(x[i], activations)
			delta := out - float64(y[i])
			for h := 0; h < m.hidden; h++ {
				hiddenDelta := delta * m.w2[h] * (1 - activations[h]*activations[h])
				m.w2[h] -= m.learningRate * delta * activations[h]
				floats.AddScaled(m.w1[h], -m.learningRate*hiddenDelta, x[i])
				m.b1[h] -= m.learningRate * hiddenDelta
			}
			m.b2 -= m.learningRate * delta
		}
	}
	return nil
}

func (m *mlp) forward(x []float64, activations []float64) float64 {
	for h := 0; h < m.hidden; h++ {
		activations[h] = math.Tanh(floats.Dot(m.w1[h], x) + m.b1[h])
	}
	return sigmoid(floats.Dot(m.w2, activations) + m.b2)
}

func (m *mlp) predictProba(x []float64) float64 {
	return m.forward(x, make([]float64, m.hidden))
}
