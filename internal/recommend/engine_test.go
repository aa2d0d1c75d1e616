package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/generator"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/socialgraph"
)

func newSession(t *testing.T, profiles ...domain.Profile) *socialgraph.Session {
	t.Helper()
	s, err := socialgraph.NewSession(profiles)
	require.NoError(t, err)
	return s
}

// fixedScorer returns a preset score per candidate and records the pairs it
// was asked about.
type fixedScorer struct {
	scores map[string]float64
	calls  []string
	err    error
}

func (f *fixedScorer) Score(_, candidate string) (Score, error) {
	f.calls = append(f.calls, candidate)
	if f.err != nil {
		return Score{}, f.err
	}
	return Score{Value: f.scores[candidate], Features: domain.FeatureVector{MutualFriends: f.scores[candidate]}}, nil
}

func (f *fixedScorer) Mode() domain.ScoringMode { return domain.ScoringProbability }

type constPredictor float64

func (p constPredictor) Predict(domain.FeatureVector) (float64, error) { return float64(p), nil }

func ids(recs []domain.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.UserID)
	}
	return out
}

func TestFindRecommendations_FriendOfFriend(t *testing.T) {
	s := newSession(t,
		domain.Profile{ID: "A", Friends: []string{"B", "D"}},
		domain.Profile{ID: "B", Friends: []string{"A", "C"}},
		domain.Profile{ID: "C", Friends: []string{"B"}},
		domain.Profile{ID: "D", Friends: []string{"A"}},
	)
	engine := NewEngine(s.Graph(), &fixedScorer{scores: map[string]float64{"C": 0.7}})

	recs, err := engine.FindRecommendations("A")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "C", recs[0].UserID)
	assert.Equal(t, 0.7, recs[0].Score)
	assert.Equal(t, []string{"B"}, recs[0].Via)
	assert.Nil(t, recs[0].Features)
}

func TestFindRecommendations_IsolatedSeed(t *testing.T) {
	s := newSession(t,
		domain.Profile{ID: "A"},
		domain.Profile{ID: "B", Friends: []string{"C"}},
		domain.Profile{ID: "C", Friends: []string{"B"}},
	)
	engine := NewEngine(s.Graph(), &fixedScorer{})

	recs, err := engine.FindRecommendations("A")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestFindRecommendations_UnknownSeed(t *testing.T) {
	s := newSession(t, domain.Profile{ID: "A"})
	engine := NewEngine(s.Graph(), &fixedScorer{})

	_, err := engine.FindRecommendations("nobody")
	require.ErrorIs(t, err, domain.ErrUnknownUser)
}

func TestFindRecommendations_ExcludesSeedAndFriendsAndStopsAtTwoHops(t *testing.T) {
	// A-B, A-C, B-C triangle, B-D, C-E, D-F (F is three hops from A)
	s := newSession(t,
		domain.Profile{ID: "A", Friends: []string{"B", "C"}},
		domain.Profile{ID: "B", Friends: []string{"A", "C", "D"}},
		domain.Profile{ID: "C", Friends: []string{"A", "B", "E"}},
		domain.Profile{ID: "D", Friends: []string{"B", "F"}},
		domain.Profile{ID: "E", Friends: []string{"C"}},
		domain.Profile{ID: "F", Friends: []string{"D"}},
	)
	scorer := &fixedScorer{scores: map[string]float64{"D": 0.2, "E": 0.9}}
	engine := NewEngine(s.Graph(), scorer)

	recs, err := engine.FindRecommendations("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"E", "D"}, ids(recs))
	assert.NotContains(t, scorer.calls, "A")
	assert.NotContains(t, scorer.calls, "B")
	assert.NotContains(t, scorer.calls, "C")
	assert.NotContains(t, scorer.calls, "F")
}

func TestFindRecommendations_ScoresEachCandidateOnce(t *testing.T) {
	// X is reachable through both B and C
	s := newSession(t,
		domain.Profile{ID: "A", Friends: []string{"B", "C"}},
		domain.Profile{ID: "B", Friends: []string{"A", "X"}},
		domain.Profile{ID: "C", Friends: []string{"A", "X"}},
		domain.Profile{ID: "X", Friends: []string{"B", "C"}},
	)
	scorer := &fixedScorer{scores: map[string]float64{"X": 0.5}}
	engine := NewEngine(s.Graph(), scorer)

	recs, err := engine.FindRecommendations("A")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"X"}, scorer.calls)
	assert.Equal(t, []string{"B", "C"}, recs[0].Via)
}

func TestFindRecommendations_TiesKeepDiscoveryOrder(t *testing.T) {
	s := newSession(t,
		domain.Profile{ID: "A", Friends: []string{"B"}},
		domain.Profile{ID: "B", Friends: []string{"A", "P", "Q", "R"}},
		domain.Profile{ID: "P", Friends: []string{"B"}},
		domain.Profile{ID: "Q", Friends: []string{"B"}},
		domain.Profile{ID: "R", Friends: []string{"B"}},
	)
	engine := NewEngine(s.Graph(), &fixedScorer{scores: map[string]float64{"P": 0.4, "Q": 0.8, "R": 0.4}})

	recs, err := engine.FindRecommendations("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q", "P", "R"}, ids(recs))
}

func TestFindRecommendations_Idempotent(t *testing.T) {
	s := newSession(t,
		domain.Profile{ID: "A", Age: 30, Interests: []string{"go"}, Friends: []string{"B"}},
		domain.Profile{ID: "B", Age: 31, Friends: []string{"A", "C", "D"}},
		domain.Profile{ID: "C", Age: 29, Interests: []string{"go"}, Friends: []string{"B"}},
		domain.Profile{ID: "D", Age: 70, Friends: []string{"B"}},
	)
	engine := NewEngine(s.Graph(), BlendScorer{Profiles: s.Store()})

	first, err := engine.FindRecommendations("A", WithExplanation())
	require.NoError(t, err)
	second, err := engine.FindRecommendations("A", WithExplanation())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"C", "D"}, ids(first))
	require.NotNil(t, first[0].Features)
	assert.Equal(t, 1.0, first[0].Features.MutualFriends)
	assert.Equal(t, 1.0, first[0].Features.SharedInterests)
}

func TestFindRecommendations_PropagatesScorerErrors(t *testing.T) {
	s := newSession(t,
		domain.Profile{ID: "A", Friends: []string{"B"}},
		domain.Profile{ID: "B", Friends: []string{"A", "C"}},
		domain.Profile{ID: "C", Friends: []string{"B"}},
	)
	engine := NewEngine(s.Graph(), &fixedScorer{err: domain.ErrModelNotTrained})

	_, err := engine.FindRecommendations("A")
	require.ErrorIs(t, err, domain.ErrModelNotTrained)
}

func TestProbabilityScorer(t *testing.T) {
	s := newSession(t,
		domain.Profile{ID: "A", Friends: []string{"B"}},
		domain.Profile{ID: "B", Friends: []string{"A", "C"}},
		domain.Profile{ID: "C", Friends: []string{"B"}},
	)
	scorer, err := NewScorer(domain.ScoringProbability, s.Store(), constPredictor(0.25))
	require.NoError(t, err)
	assert.Equal(t, domain.ScoringProbability, scorer.Mode())

	score, err := scorer.Score("A", "C")
	require.NoError(t, err)
	assert.Equal(t, 0.25, score.Value)
	assert.Equal(t, 1.0, score.Features.MutualFriends)

	_, err = scorer.Score("A", "ghost")
	require.ErrorIs(t, err, domain.ErrUnknownUser)
}

func TestNewScorer(t *testing.T) {
	s := newSession(t, domain.Profile{ID: "A"})

	_, err := NewScorer(domain.ScoringProbability, s.Store(), nil)
	require.Error(t, err)

	scorer, err := NewScorer(domain.ScoringBlend, s.Store(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ScoringBlend, scorer.Mode())

	_, err = NewScorer("vibes", s.Store(), nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrUnknownUser))
}

func TestFindRecommendations_GeneratedNetworkSweep(t *testing.T) {
	profiles, err := generator.New(generator.Config{NumUsers: 120, FriendsPerUser: 4, Seed: 7}).Generate(context.Background())
	require.NoError(t, err)
	s := newSession(t, profiles...)
	graph := s.Graph()

	scorer, err := NewScorer(domain.ScoringBlend, s.Store(), nil)
	require.NoError(t, err)
	engine := NewEngine(graph, scorer)

	for _, seed := range graph.Nodes() {
		recs, err := engine.FindRecommendations(seed)
		require.NoError(t, err, seed)

		seen := make(map[string]bool, len(recs))
		for _, rec := range recs {
			require.NotEqual(t, seed, rec.UserID)
			require.False(t, graph.HasEdge(seed, rec.UserID), "%s recommended its friend %s", seed, rec.UserID)
			require.False(t, seen[rec.UserID], "%s recommended %s twice", seed, rec.UserID)
			seen[rec.UserID] = true

			bridged := false
			for _, friend := range graph.Neighbors(seed) {
				if graph.HasEdge(friend, rec.UserID) {
					bridged = true
					break
				}
			}
			require.True(t, bridged, "%s is not two hops from %s", rec.UserID, seed)
		}
	}
}
