package recommend

import (
	"fmt"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/similarity"
)

// Score is the ranking value for a candidate together with the features it
// was derived from.
type Score struct {
	Value    float64
	Features domain.FeatureVector
}

// Scorer rates a candidate for a seed user. A deployment uses one Scorer so
// that scores within a result are comparable.
type Scorer interface {
	Score(seed, candidate string) (Score, error)
	Mode() domain.ScoringMode
}

// Predictor is the trained model contract used by ProbabilityScorer.
type Predictor interface {
	Predict(fv domain.FeatureVector) (float64, error)
}

// ProbabilityScorer ranks by the classifier's friendship probability in [0,1].
type ProbabilityScorer struct {
	Profiles similarity.ProfileLookup
	Model    Predictor
}

// Score implements Scorer.
func (s ProbabilityScorer) Score(seed, candidate string) (Score, error) {
	fv, err := similarity.Features(s.Profiles, seed, candidate)
	if err != nil {
		return Score{}, err
	}
	p, err := s.Model.Predict(fv)
	if err != nil {
		return Score{}, err
	}
	return Score{Value: p, Features: fv}, nil
}

// Mode implements Scorer.
func (ProbabilityScorer) Mode() domain.ScoringMode { return domain.ScoringProbability }

// BlendScorer ranks by the heuristic 0-100 blend of truncated features. It
// needs no trained model.
type BlendScorer struct {
	Profiles similarity.ProfileLookup
}

// Score implements Scorer.
func (s BlendScorer) Score(seed, candidate string) (Score, error) {
	fv, err := similarity.Features(s.Profiles, seed, candidate)
	if err != nil {
		return Score{}, err
	}
	return Score{Value: similarity.Blend(fv), Features: fv}, nil
}

// Mode implements Scorer.
func (BlendScorer) Mode() domain.ScoringMode { return domain.ScoringBlend }

// NewScorer selects the Scorer for mode. model may be nil in blend mode.
func NewScorer(mode domain.ScoringMode, profiles similarity.ProfileLookup, model Predictor) (Scorer, error) {
	switch mode {
	case domain.ScoringProbability, "":
		if model == nil {
			return nil, fmt.Errorf("probability scoring requires a model")
		}
		return ProbabilityScorer{Profiles: profiles, Model: model}, nil
	case domain.ScoringBlend:
		return BlendScorer{Profiles: profiles}, nil
	default:
		return nil, fmt.Errorf("unknown scoring mode %q", mode)
	}
}
