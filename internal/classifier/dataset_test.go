package classifier

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

type staticSource struct {
	order    []string
	profiles map[string]*domain.Profile
}

func newStaticSource(profiles ...domain.Profile) staticSource {
	s := staticSource{profiles: map[string]*domain.Profile{}}
	for i := range profiles {
		s.order = append(s.order, profiles[i].ID)
		s.profiles[profiles[i].ID] = &profiles[i]
	}
	return s
}

func (s staticSource) IDs() []string { return slices.Clone(s.order) }

func (s staticSource) Profile(id string) (*domain.Profile, bool) {
	p, ok := s.profiles[id]
	return p, ok
}

func TestBuildDataset_PairwisePolicy(t *testing.T) {
	src := newStaticSource(
		domain.Profile{ID: "a", Friends: []string{"b"}},
		domain.Profile{ID: "b", Friends: []string{"a", "c"}},
		domain.Profile{ID: "c", Friends: []string{"b"}},
		domain.Profile{ID: "d"},
	)
	var calls int
	features := func(self, other string) (domain.FeatureVector, error) {
		calls++
		return domain.FeatureVector{MutualFriends: float64(len(self + other))}, nil
	}

	ds, err := PairwiseBuilder{Features: features}.Build(src)
	require.NoError(t, err)

	// every ordered pair of distinct users appears exactly once
	assert.Equal(t, 4*3, ds.Len())
	assert.Equal(t, 4*3, calls)
	// positives equal the sum of degrees
	assert.Equal(t, 4, ds.Positives())

	seen := map[[2]string]int{}
	for i, pair := range ds.Pairs {
		seen[pair]++
		assert.NotEqual(t, pair[0], pair[1])
		assert.Len(t, ds.X[i], domain.FeatureCount)
	}
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
	assert.Equal(t, [2]string{"a", "b"}, ds.Pairs[0])
	assert.Equal(t, 1, ds.Y[0])
}

func TestBuildDataset_PropagatesFeatureErrors(t *testing.T) {
	src := newStaticSource(domain.Profile{ID: "a"}, domain.Profile{ID: "b"})
	boom := errors.New("boom")
	_, err := BuildDataset(src, func(string, string) (domain.FeatureVector, error) {
		return domain.FeatureVector{}, boom
	})
	require.ErrorIs(t, err, boom)
}
