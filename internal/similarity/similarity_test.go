package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

type lookup map[string]*domain.Profile

func (l lookup) Profile(id string) (*domain.Profile, bool) {
	p, ok := l[id]
	return p, ok
}

func fixture() lookup {
	return lookup{
		"ana": {
			ID: "ana", Age: 28, Location: "Cairo", Occupation: "Engineer",
			Interests:  []string{"chess", "hiking", "jazz"},
			Activities: []string{"running", "reading"},
			Friends:    []string{"ben", "cy", "dee"},
		},
		"ben": {
			ID: "ben", Age: 38, Location: "Cairo", Occupation: "Teacher",
			Interests:  []string{"jazz", "chess"},
			Activities: []string{"reading", "cooking", "running", "yoga"},
			Friends:    []string{"ana", "cy", "dee"},
		},
		"old": {ID: "old", Age: 140, Location: "", Occupation: ""},
		"kid": {ID: "kid", Age: 10, Location: "", Occupation: ""},
	}
}

func TestFeatures(t *testing.T) {
	fv, err := Features(fixture(), "ana", "ben")
	require.NoError(t, err)

	assert.Equal(t, 2.0, fv.MutualFriends)
	assert.Equal(t, 2.0, fv.SharedInterests)
	assert.InDelta(t, 0.9, fv.AgeSimilarity, 1e-9)
	assert.InDelta(t, 0.5, fv.ActivityJaccard, 1e-9)
	assert.Equal(t, 0.0, fv.OccupationMatch)
	assert.Equal(t, 1.0, fv.LocationMatch)
}

func TestFeatures_UnknownUser(t *testing.T) {
	_, err := Features(fixture(), "ana", "ghost")
	require.ErrorIs(t, err, domain.ErrUnknownUser)

	_, err = Features(fixture(), "ghost", "ana")
	require.ErrorIs(t, err, domain.ErrUnknownUser)
}

func TestFeatures_EmptyActivitiesYieldZero(t *testing.T) {
	fv, err := Features(fixture(), "old", "kid")
	require.NoError(t, err)
	assert.Equal(t, 0.0, fv.ActivityJaccard)
	assert.Equal(t, 0.0, fv.SharedInterests)
}

func TestFeatures_MatchComponentsAreSymmetric(t *testing.T) {
	profiles := fixture()
	for a := range profiles {
		for b := range profiles {
			ab, err := Features(profiles, a, b)
			require.NoError(t, err)
			ba, err := Features(profiles, b, a)
			require.NoError(t, err)
			assert.Equal(t, ab.OccupationMatch, ba.OccupationMatch, "%s/%s", a, b)
			assert.Equal(t, ab.LocationMatch, ba.LocationMatch, "%s/%s", a, b)
		}
	}
}

func TestAgeSimilarity(t *testing.T) {
	tests := []struct {
		a, b int
		want float64
	}{
		{30, 30, 1},
		{30, 80, 0.5},
		{0, 100, 0},
		{10, 140, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, AgeSimilarity(tt.a, tt.b), 1e-9, "%d vs %d", tt.a, tt.b)
	}
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard(nil, nil))
	assert.Equal(t, 0.0, Jaccard([]string{""}, []string{}))
	assert.Equal(t, 1.0, Jaccard([]string{"a", "a"}, []string{"a"}))
	assert.InDelta(t, 1.0/3.0, Jaccard([]string{"a", "b"}, []string{"b", "c"}), 1e-9)
}

func TestBlend(t *testing.T) {
	fv := domain.FeatureVector{
		MutualFriends:   4,
		SharedInterests: 0,
		AgeSimilarity:   0.5,
		ActivityJaccard: 0.5,
		OccupationMatch: 1,
		LocationMatch:   0,
	}
	// (1 + 0 + 0.5 + 0.5 + 1 + 0) / 6 * 100
	assert.InDelta(t, 50.0, Blend(fv), 1e-9)
	assert.Equal(t, 0.0, Blend(domain.FeatureVector{}))
}
