// Package similarity computes the feature vector describing how alike two
// members of the network are.
package similarity

import (
	"fmt"
	"math"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// ageSpan is the age gap at which age similarity reaches zero.
const ageSpan = 100.0

// ProfileLookup resolves identifiers to profiles.
type ProfileLookup interface {
	Profile(id string) (*domain.Profile, bool)
}

// Features returns the feature vector between self and other. Both
// identifiers must resolve; no default profile is ever substituted.
func Features(profiles ProfileLookup, self, other string) (domain.FeatureVector, error) {
	a, ok := profiles.Profile(self)
	if !ok {
		return domain.FeatureVector{}, fmt.Errorf("%w: %s", domain.ErrUnknownUser, self)
	}
	b, ok := profiles.Profile(other)
	if !ok {
		return domain.FeatureVector{}, fmt.Errorf("%w: %s", domain.ErrUnknownUser, other)
	}
	return Between(a, b), nil
}

// Between computes the feature vector for two resolved profiles.
func Between(a, b *domain.Profile) domain.FeatureVector {
	return domain.FeatureVector{
		MutualFriends:   float64(intersectionSize(a.Friends, b.Friends)),
		SharedInterests: float64(intersectionSize(a.Interests, b.Interests)),
		AgeSimilarity:   AgeSimilarity(a.Age, b.Age),
		ActivityJaccard: Jaccard(a.Activities, b.Activities),
		OccupationMatch: match(a.Occupation, b.Occupation),
		LocationMatch:   match(a.Location, b.Location),
	}
}

// AgeSimilarity is 1 for equal ages and falls linearly to 0 at a gap of 100
// years. Larger gaps stay at 0.
func AgeSimilarity(a, b int) float64 {
	gap := math.Abs(float64(a - b))
	return clamp01(1 - gap/ageSpan)
}

// Jaccard returns |a ∩ b| / |a ∪ b| over the distinct values of a and b.
// An empty union yields 0.
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	inter := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Blend is the heuristic 0-100 score: every component above 1 is truncated
// to 1 before the components are averaged.
func Blend(fv domain.FeatureVector) float64 {
	values := fv.Values()
	sum := 0.0
	for _, v := range values {
		sum += math.Min(v, 1)
	}
	return sum / float64(len(values)) * 100
}

func intersectionSize(a, b []string) int {
	setA := toSet(a)
	count := 0
	for v := range toSet(b) {
		if _, ok := setA[v]; ok {
			count++
		}
	}
	return count
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func match(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
