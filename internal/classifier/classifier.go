// Package classifier trains and queries the binary friendship model.
//
// A Classifier owns a feature scaler fit on the training split and one model
// family selected by Kind. Training is a blocking batch job over a snapshot
// of the network; there is no incremental update path, so a model becomes
// stale as soon as the network changes.
package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// Options tunes training. Zero values fall back to DefaultOptions, so a Seed
// of 0 means seed 42; configuration rejects it outright.
type Options struct {
	TestFraction float64
	Seed         int64
	KNNNeighbors int
	ForestTrees  int
	TreeMaxDepth int
	Iterations   int
	Epochs       int
	HiddenUnits  int
}

// DefaultOptions mirrors the reference setup: 30% held out, seed 42, k = 3.
func DefaultOptions() Options {
	return Options{
		TestFraction: 0.3,
		Seed:         42,
		KNNNeighbors: 3,
		ForestTrees:  50,
		TreeMaxDepth: 0,
		Iterations:   300,
		Epochs:       20,
		HiddenUnits:  8,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		o.TestFraction = def.TestFraction
	}
	if o.Seed == 0 {
		o.Seed = def.Seed
	}
	if o.KNNNeighbors <= 0 {
		o.KNNNeighbors = def.KNNNeighbors
	}
	if o.ForestTrees <= 0 {
		o.ForestTrees = def.ForestTrees
	}
	if o.TreeMaxDepth < 0 {
		o.TreeMaxDepth = def.TreeMaxDepth
	}
	if o.Iterations <= 0 {
		o.Iterations = def.Iterations
	}
	if o.Epochs <= 0 {
		o.Epochs = def.Epochs
	}
	if o.HiddenUnits <= 0 {
		o.HiddenUnits = def.HiddenUnits
	}
	return o
}

// Report summarizes a training run.
type Report struct {
	Kind          Kind
	Samples       int
	Positives     int
	TrainSamples  int
	TestSamples   int
	TrainAccuracy float64
	TestAccuracy  float64
	Duration      time.Duration
	TrainedAt     time.Time
}

// Classifier is not safe for concurrent Train and Predict calls.
type Classifier struct {
	opts    Options
	logger  *slog.Logger
	nowFn   func() time.Time
	scaler  *Scaler
	model   model
	report  Report
	trained bool
}

// New constructs an untrained Classifier.
func New(logger *slog.Logger, opts Options) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		opts:   opts.withDefaults(),
		logger: logger.With("component", "classifier"),
		nowFn:  time.Now,
	}
}

// Train fits the scaler and a model of the requested kind. On failure the
// previously trained state, if any, is kept.
func (c *Classifier) Train(ctx context.Context, ds Dataset, kind Kind) (Report, error) {
	start := c.nowFn()
	mdl, err := newModel(kind, c.opts)
	if err != nil {
		return Report{}, err
	}
	if err := validateDataset(ds); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	train, test := split(ds, c.opts.TestFraction, c.opts.Seed)
	scaler := FitScaler(train.X)
	trainX := scaler.TransformAll(train.X)
	testX := scaler.TransformAll(test.X)

	if err := mdl.fit(trainX, train.Y); err != nil {
		return Report{}, fmt.Errorf("fit %s: %w", kind, err)
	}

	report := Report{
		Kind:          kind,
		Samples:       ds.Len(),
		Positives:     ds.Positives(),
		TrainSamples:  train.Len(),
		TestSamples:   test.Len(),
		TrainAccuracy: accuracy(mdl, trainX, train.Y),
		TestAccuracy:  accuracy(mdl, testX, test.Y),
		TrainedAt:     c.nowFn(),
	}
	report.Duration = report.TrainedAt.Sub(start)

	c.scaler = scaler
	c.model = mdl
	c.report = report
	c.trained = true

	c.logger.Info("classifier trained",
		"kind", kind.String(),
		"samples", report.Samples,
		"positives", report.Positives,
		"train_accuracy", report.TrainAccuracy,
		"test_accuracy", report.TestAccuracy,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

// Predict returns the probability that the pair described by fv are friends.
func (c *Classifier) Predict(fv domain.FeatureVector) (float64, error) {
	if !c.trained {
		return 0, domain.ErrModelNotTrained
	}
	return c.model.predictProba(c.scaler.Transform(fv.Values())), nil
}

// Trained reports whether a training pass has completed.
func (c *Classifier) Trained() bool {
	return c.trained
}

// Report returns the last successful training report.
func (c *Classifier) Report() (Report, bool) {
	return c.report, c.trained
}

func validateDataset(ds Dataset) error {
	if ds.Len() == 0 {
		return fmt.Errorf("%w: empty dataset", domain.ErrInsufficientData)
	}
	if len(ds.X) != ds.Len() {
		return fmt.Errorf("%w: %d rows for %d labels", domain.ErrInsufficientData, len(ds.X), ds.Len())
	}
	pos := ds.Positives()
	if pos == 0 || pos == ds.Len() {
		return fmt.Errorf("%w: dataset holds a single class", domain.ErrInsufficientData)
	}
	return nil
}

func accuracy(m model, x [][]float64, y []int) float64 {
	if len(x) == 0 {
		return 0
	}
	correct := 0
	for i, row := range x {
		predicted := 0
		if m.predictProba(row) >= 0.5 {
			predicted = 1
		}
		if predicted == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}
