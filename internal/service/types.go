package service

import (
	"time"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/classifier"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

// ProfileInput is the inbound payload for registering a user. It is kept
// apart from domain.Profile so transport concerns stay out of the domain.
type ProfileInput struct {
	ID         string   `json:"name" validate:"required,max=128"`
	Age        int      `json:"age" validate:"gte=0,lte=150"`
	Location   string   `json:"location" validate:"max=128"`
	Occupation string   `json:"occupation" validate:"max=128"`
	Interests  []string `json:"interests" validate:"max=64,dive,max=64"`
	Activities []string `json:"activities" validate:"max=64,dive,max=64"`
	Friends    []string `json:"friends" validate:"max=1000,dive,required"`
}

// FriendshipInput names the two endpoints of a friendship edit.
type FriendshipInput struct {
	A string `json:"a" validate:"required"`
	B string `json:"b" validate:"required"`
}

// PaginationMeta captures pagination metadata returned to API clients.
type PaginationMeta struct {
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
}

// ProfilesPage represents paginated profiles with metadata.
type ProfilesPage struct {
	Items      []domain.ProfileSummary
	Pagination PaginationMeta
}

// ListProfilesParams defines filters for listing profiles. String filters
// match case-insensitively.
type ListProfilesParams struct {
	Page       int
	PageSize   int
	Search     string
	Location   string
	Occupation string
}

// RecommendParams tunes a single recommendation query.
type RecommendParams struct {
	Limit   int
	Explain bool
}

// RecommendationsResult is the ranked answer for one seed user.
type RecommendationsResult struct {
	UserID          string
	Mode            domain.ScoringMode
	Recommendations []domain.Recommendation
	Total           int
	ModelStale      bool
}

// SimilarityResult describes how alike two users are.
type SimilarityResult struct {
	A           string
	B           string
	Features    domain.FeatureVector
	Blend       float64
	Probability *float64
	Friends     bool
}

// ModelStatus reports the classifier state against the current network.
type ModelStatus struct {
	Kind           classifier.Kind
	Mode           domain.ScoringMode
	Trained        bool
	Stale          bool
	NetworkVersion uint64
	TrainedVersion uint64
	Report         *classifier.Report
	CheckedAt      time.Time
}

// NetworkStats summarizes the size of the loaded network.
type NetworkStats struct {
	Users       int
	Friendships int
	Version     uint64
}
