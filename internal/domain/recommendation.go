package domain

// Recommendation is a ranked friend-of-friend candidate for a seed user.
type Recommendation struct {
	UserID string
	Score  float64
	// Via lists the seed's friends through which the candidate was reached.
	Via      []string
	Features *FeatureVector
}

// ScoringMode selects how candidates are scored for a deployment.
type ScoringMode string

const (
	// ScoringProbability uses the trained classifier's positive-class probability in [0,1].
	ScoringProbability ScoringMode = "probability"
	// ScoringBlend averages truncated feature components into a 0-100 score.
	ScoringBlend ScoringMode = "blend"
)
