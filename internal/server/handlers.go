package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/classifier"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.FriendService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.FriendService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodGet:
		h.listUsers(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handleUser serves /users/{id} and /users/{id}/recommendations.
func (h *APIHandlers) handleUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/"), "/")
	userID, sub, _ := strings.Cut(rest, "/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	switch sub {
	case "":
		h.getUser(w, r, userID)
	case "recommendations":
		h.recommend(w, r, userID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *APIHandlers) handleFriendships(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost, http.MethodDelete:
	default:
		methodNotAllowed(w, http.MethodPost, http.MethodDelete)
		return
	}

	var payload friendshipRequest
	q := r.URL.Query()
	if r.Method == http.MethodDelete && q.Has("a") && q.Has("b") {
		payload = friendshipRequest{A: q.Get("a"), B: q.Get("b")}
	} else if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		changed bool
		err     error
	)
	if r.Method == http.MethodPost {
		changed, err = h.service.AddFriendship(r.Context(), service.FriendshipInput{A: payload.A, B: payload.B})
	} else {
		changed, err = h.service.RemoveFriendship(r.Context(), payload.A, payload.B)
	}
	if err != nil {
		h.writeServiceError(w, err, "failed to update friendship", "a", payload.A, "b", payload.B)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost && changed {
		status = http.StatusCreated
	}
	respondJSON(w, status, friendshipResponse{A: payload.A, B: payload.B, Changed: changed})
}

func (h *APIHandlers) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	a, b := strings.TrimSpace(q.Get("a")), strings.TrimSpace(q.Get("b"))
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}

	result, err := h.service.Similarity(r.Context(), a, b)
	if err != nil {
		h.writeServiceError(w, err, "failed to compute similarity", "a", a, "b", b)
		return
	}
	respondJSON(w, http.StatusOK, similarityResponse{
		A:           result.A,
		B:           result.B,
		Features:    toFeaturesResponse(result.Features),
		Blend:       result.Blend,
		Probability: result.Probability,
		Friends:     result.Friends,
	})
}

func (h *APIHandlers) handleModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, toModelResponse(h.service.ModelStatus()))
}

func (h *APIHandlers) handleTrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload trainRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var (
		report classifier.Report
		err    error
	)
	if strings.TrimSpace(payload.Kind) == "" {
		report, err = h.service.Retrain(r.Context())
	} else {
		kind, parseErr := classifier.ParseKind(payload.Kind)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		report, err = h.service.Train(r.Context(), kind)
	}
	if err != nil {
		h.writeServiceError(w, err, "failed to train model", "kind", payload.Kind)
		return
	}
	respondJSON(w, http.StatusOK, toReportResponse(report))
}

func (h *APIHandlers) handleNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats := h.service.Stats()
	respondJSON(w, http.StatusOK, networkResponse{
		Users:       stats.Users,
		Friendships: stats.Friendships,
		Version:     stats.Version,
	})
}

func (h *APIHandlers) handleExportProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, format); err != nil {
		h.writeServiceError(w, err, "failed to export profiles", "format", format)
		return
	}

	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="user_profiles.csv"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *APIHandlers) createUser(w http.ResponseWriter, r *http.Request) {
	var payload service.ProfileInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.AddProfile(r.Context(), payload)
	if err != nil {
		h.writeServiceError(w, err, "failed to add user", "user_id", payload.ID)
		return
	}
	respondJSON(w, http.StatusCreated, toProfileResponse(profile))
}

func (h *APIHandlers) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.ListProfiles(r.Context(), service.ListProfilesParams{
		Page:       parseInt(q.Get("page"), 1),
		PageSize:   parseInt(q.Get("pageSize"), 0),
		Search:     q.Get("search"),
		Location:   q.Get("location"),
		Occupation: q.Get("occupation"),
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to list users")
		return
	}

	items := make([]profileSummaryResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, profileSummaryResponse{
			UserID:      item.ID,
			Age:         item.Age,
			Location:    item.Location,
			Occupation:  item.Occupation,
			FriendCount: item.FriendCount,
		})
	}
	respondJSON(w, http.StatusOK, usersListResponse{
		Items: items,
		Pagination: paginationResponse{
			Page:       page.Pagination.Page,
			PageSize:   page.Pagination.PageSize,
			TotalItems: page.Pagination.TotalItems,
			TotalPages: page.Pagination.TotalPages,
		},
	})
}

func (h *APIHandlers) getUser(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch user", "user_id", userID)
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *APIHandlers) recommend(w http.ResponseWriter, r *http.Request, userID string) {
	q := r.URL.Query()
	explain, err := parseBool(q.Get("explain"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid explain")
		return
	}

	result, err := h.service.Recommend(r.Context(), userID, service.RecommendParams{
		Limit:   parseInt(q.Get("limit"), 0),
		Explain: explain,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to compute recommendations", "user_id", userID)
		return
	}

	recs := make([]recommendationResponse, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		item := recommendationResponse{
			UserID: rec.UserID,
			Score:  rec.Score,
			Via:    rec.Via,
		}
		if rec.Features != nil {
			features := toFeaturesResponse(*rec.Features)
			item.Features = &features
		}
		recs = append(recs, item)
	}
	respondJSON(w, http.StatusOK, recommendationsResponse{
		UserID:          result.UserID,
		Mode:            string(result.Mode),
		Recommendations: recs,
		Total:           result.Total,
		ModelStale:      result.ModelStale,
	})
}

// writeServiceError maps service errors onto HTTP statuses. Unexpected errors
// are logged and hidden behind msg.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, domain.ErrUnknownUser):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateUser):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrModelNotTrained):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidClassifierKind),
		errors.Is(err, domain.ErrSelfFriendship),
		errors.Is(err, service.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(msg, append([]any{"error", err}, attrs...)...)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

type friendshipRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type trainRequest struct {
	Kind string `json:"kind"`
}

type friendshipResponse struct {
	A       string `json:"a"`
	B       string `json:"b"`
	Changed bool   `json:"changed"`
}

type profileResponse struct {
	UserID     string   `json:"userId"`
	Age        int      `json:"age"`
	Location   string   `json:"location"`
	Occupation string   `json:"occupation"`
	Interests  []string `json:"interests"`
	Activities []string `json:"activities"`
	Friends    []string `json:"friends"`
}

type profileSummaryResponse struct {
	UserID      string `json:"userId"`
	Age         int    `json:"age"`
	Location    string `json:"location"`
	Occupation  string `json:"occupation"`
	FriendCount int    `json:"friendCount"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

type usersListResponse struct {
	Items      []profileSummaryResponse `json:"items"`
	Pagination paginationResponse       `json:"pagination"`
}

type featuresResponse struct {
	MutualFriends   float64 `json:"mutualFriends"`
	SharedInterests float64 `json:"sharedInterests"`
	AgeSimilarity   float64 `json:"ageSimilarity"`
	ActivityJaccard float64 `json:"activityJaccard"`
	OccupationMatch float64 `json:"occupationMatch"`
	LocationMatch   float64 `json:"locationMatch"`
}

type recommendationResponse struct {
	UserID   string            `json:"userId"`
	Score    float64           `json:"score"`
	Via      []string          `json:"via"`
	Features *featuresResponse `json:"features,omitempty"`
}

type recommendationsResponse struct {
	UserID          string                   `json:"userId"`
	Mode            string                   `json:"mode"`
	Recommendations []recommendationResponse `json:"recommendations"`
	Total           int                      `json:"total"`
	ModelStale      bool                     `json:"modelStale"`
}

type similarityResponse struct {
	A           string           `json:"a"`
	B           string           `json:"b"`
	Features    featuresResponse `json:"features"`
	Blend       float64          `json:"blend"`
	Probability *float64         `json:"probability,omitempty"`
	Friends     bool             `json:"friends"`
}

type reportResponse struct {
	Kind          string  `json:"kind"`
	Samples       int     `json:"samples"`
	Positives     int     `json:"positives"`
	TrainSamples  int     `json:"trainSamples"`
	TestSamples   int     `json:"testSamples"`
	TrainAccuracy float64 `json:"trainAccuracy"`
	TestAccuracy  float64 `json:"testAccuracy"`
	DurationMs    int64   `json:"durationMs"`
	TrainedAt     string  `json:"trainedAt"`
}

type modelResponse struct {
	Kind           string          `json:"kind"`
	Mode           string          `json:"mode"`
	Trained        bool            `json:"trained"`
	Stale          bool            `json:"stale"`
	NetworkVersion uint64          `json:"networkVersion"`
	TrainedVersion uint64          `json:"trainedVersion"`
	Report         *reportResponse `json:"report,omitempty"`
	CheckedAt      string          `json:"checkedAt"`
}

type networkResponse struct {
	Users       int    `json:"users"`
	Friendships int    `json:"friendships"`
	Version     uint64 `json:"version"`
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		UserID:     p.ID,
		Age:        p.Age,
		Location:   p.Location,
		Occupation: p.Occupation,
		Interests:  nonNil(p.Interests),
		Activities: nonNil(p.Activities),
		Friends:    nonNil(p.Friends),
	}
}

func toFeaturesResponse(fv domain.FeatureVector) featuresResponse {
	return featuresResponse{
		MutualFriends:   fv.MutualFriends,
		SharedInterests: fv.SharedInterests,
		AgeSimilarity:   fv.AgeSimilarity,
		ActivityJaccard: fv.ActivityJaccard,
		OccupationMatch: fv.OccupationMatch,
		LocationMatch:   fv.LocationMatch,
	}
}

func toReportResponse(r classifier.Report) reportResponse {
	return reportResponse{
		Kind:          r.Kind.String(),
		Samples:       r.Samples,
		Positives:     r.Positives,
		TrainSamples:  r.TrainSamples,
		TestSamples:   r.TestSamples,
		TrainAccuracy: r.TrainAccuracy,
		TestAccuracy:  r.TestAccuracy,
		DurationMs:    r.Duration.Milliseconds(),
		TrainedAt:     formatTime(r.TrainedAt),
	}
}

func toModelResponse(s service.ModelStatus) modelResponse {
	resp := modelResponse{
		Kind:           s.Kind.String(),
		Mode:           string(s.Mode),
		Trained:        s.Trained,
		Stale:          s.Stale,
		NetworkVersion: s.NetworkVersion,
		TrainedVersion: s.TrainedVersion,
		CheckedAt:      formatTime(s.CheckedAt),
	}
	if s.Report != nil {
		report := toReportResponse(*s.Report)
		resp.Report = &report
	}
	return resp
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func parseBool(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
