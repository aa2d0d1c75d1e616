package classifier

import (
	"fmt"
	"math/rand"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// ProfileSource enumerates profiles for dataset construction.
type ProfileSource interface {
	IDs() []string
	Profile(id string) (*domain.Profile, bool)
}

// FeatureFunc computes the feature vector for an ordered pair of users.
type FeatureFunc func(self, other string) (domain.FeatureVector, error)

// DatasetBuilder turns a profile snapshot into a labeled dataset.
type DatasetBuilder interface {
	Build(src ProfileSource) (Dataset, error)
}

// Dataset is a labeled set of feature rows. Y holds 1 for friends, 0 otherwise.
type Dataset struct {
	X     [][]float64
	Y     []int
	Pairs [][2]string
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.Y)
}

// Positives returns the number of samples labeled 1.
func (d Dataset) Positives() int {
	n := 0
	for _, label := range d.Y {
		n += label
	}
	return n
}

func (d *Dataset) add(pair [2]string, fv domain.FeatureVector, label int) {
	d.X = append(d.X, fv.Values())
	d.Y = append(d.Y, label)
	d.Pairs = append(d.Pairs, pair)
}

// PairwiseBuilder labels every ordered pair of distinct users. For every
// user U it emits one positive per friend and one negative per non-friend,
// so the dataset grows with the square of the user count.
type PairwiseBuilder struct {
	Features FeatureFunc
}

// Build implements DatasetBuilder.
func (b PairwiseBuilder) Build(src ProfileSource) (Dataset, error) {
	return BuildDataset(src, b.Features)
}

// BuildDataset runs the pairwise labeling policy over src.
func BuildDataset(src ProfileSource, features FeatureFunc) (Dataset, error) {
	ids := src.IDs()
	var ds Dataset
	for _, id := range ids {
		profile, ok := src.Profile(id)
		if !ok {
			return Dataset{}, fmt.Errorf("%w: %s", domain.ErrUnknownUser, id)
		}
		friends := make(map[string]struct{}, len(profile.Friends))
		for _, friend := range profile.Friends {
			if _, seen := friends[friend]; seen {
				continue
			}
			friends[friend] = struct{}{}
			fv, err := features(id, friend)
			if err != nil {
				return Dataset{}, fmt.Errorf("features %s/%s: %w", id, friend, err)
			}
			ds.add([2]string{id, friend}, fv, 1)
		}
		for _, other := range ids {
			if other == id {
				continue
			}
			if _, isFriend := friends[other]; isFriend {
				continue
			}
			fv, err := features(id, other)
			if err != nil {
				return Dataset{}, fmt.Errorf("features %s/%s: %w", id, other, err)
			}
			ds.add([2]string{id, other}, fv, 0)
		}
	}
	return ds, nil
}

// split partitions ds into train and test sets, stratified by label so both
// classes keep their ratio.
func split(ds Dataset, testFraction float64, seed int64) (train, test Dataset) {
	rng := rand.New(rand.NewSource(seed))
	byLabel := map[int][]int{}
	for i, label := range ds.Y {
		byLabel[label] = append(byLabel[label], i)
	}
	for _, label := range []int{0, 1} {
		idx := byLabel[label]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(float64(len(idx)) * testFraction)
		for pos, i := range idx {
			target := &train
			if pos < nTest {
				target = &test
			}
			target.X = append(target.X, ds.X[i])
			target.Y = append(target.Y, ds.Y[i])
			target.Pairs = append(target.Pairs, ds.Pairs[i])
		}
	}
	return train, test
}
