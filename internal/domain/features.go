package domain

// FeatureCount is the fixed width of a FeatureVector.
const FeatureCount = 6

// FeatureVector holds the similarity signals between two users in a fixed order.
type FeatureVector struct {
	MutualFriends   float64
	SharedInterests float64
	AgeSimilarity   float64
	ActivityJaccard float64
	OccupationMatch float64
	LocationMatch   float64
}

// Values returns the components in model input order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.MutualFriends,
		f.SharedInterests,
		f.AgeSimilarity,
		f.ActivityJaccard,
		f.OccupationMatch,
		f.LocationMatch,
	}
}

// FeatureNames lists the component names in the same order as Values.
func FeatureNames() []string {
	return []string{
		"mutualFriends",
		"sharedInterests",
		"ageSimilarity",
		"activityJaccard",
		"occupationMatch",
		"locationMatch",
	}
}
