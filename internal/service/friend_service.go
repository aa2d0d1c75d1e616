package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/classifier"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/metrics"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/profilecsv"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/recommend"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/similarity"
	"github.com/karemsaeed21/Friends-Recommendation-System/internal/socialgraph"
)

// ErrUnsupportedFormat is returned by Export for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// NetworkRepository is the graph database contract used to mirror edits.
type NetworkRepository interface {
	UpsertProfile(ctx context.Context, p domain.Profile) error
	UpsertFriendship(ctx context.Context, a, b string) (bool, error)
	DeleteFriendship(ctx context.Context, a, b string) (bool, error)
	LoadProfiles(ctx context.Context) ([]domain.Profile, error)
	CountProfiles(ctx context.Context) (int64, error)
}

// Options configures a FriendService.
type Options struct {
	Kind         classifier.Kind
	Mode         domain.ScoringMode
	DefaultLimit int
	MaxLimit     int
	Training     classifier.Options
}

func (o Options) withDefaults() Options {
	if !o.Kind.Valid() {
		o.Kind = classifier.KindKNN
	}
	if o.Mode == "" {
		o.Mode = domain.ScoringProbability
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 10
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = 200
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	return o
}

// FriendService hosts one network session and its classifier. Queries share
// a read lock; edits and training take the write lock, so no query ever sees
// a half-applied edit or a half-trained model. Edits reach the graph mirror
// only after the write lock is released.
type FriendService struct {
	mu             sync.RWMutex
	mirrorMu       sync.Mutex
	logger         *slog.Logger
	session        *socialgraph.Session
	model          *classifier.Classifier
	builder        classifier.DatasetBuilder
	engine         *recommend.Engine
	repo           NetworkRepository
	opts           Options
	trainedVersion uint64
	nowFn          func() time.Time
}

// NewFriendService wires the engine over session. repo may be nil, in which
// case edits are not mirrored to a graph database.
func NewFriendService(logger *slog.Logger, session *socialgraph.Session, repo NetworkRepository, opts Options) (*FriendService, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()

	model := classifier.New(logger, opts.Training)
	scorer, err := recommend.NewScorer(opts.Mode, session.Store(), model)
	if err != nil {
		return nil, err
	}

	store := session.Store()
	svc := &FriendService{
		logger:  logger.With("component", "friend_service"),
		session: session,
		model:   model,
		builder: classifier.PairwiseBuilder{Features: func(self, other string) (domain.FeatureVector, error) {
			return similarity.Features(store, self, other)
		}},
		engine: recommend.NewEngine(session.Graph(), scorer),
		repo:   repo,
		opts:   opts,
		nowFn:  time.Now,
	}
	svc.publishNetworkSize()
	return svc, nil
}

// WithClock overrides the time provider (used primarily in tests).
func (s *FriendService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Mode returns the deployment's scoring mode.
func (s *FriendService) Mode() domain.ScoringMode {
	return s.opts.Mode
}

// Retrain trains the configured classifier kind on the current network.
func (s *FriendService) Retrain(ctx context.Context) (classifier.Report, error) {
	s.mu.RLock()
	kind := s.opts.Kind
	s.mu.RUnlock()
	return s.Train(ctx, kind)
}

// Train rebuilds the pairwise dataset from the current network and fits a
// model of the given kind. A successful run makes kind the configured kind.
func (s *FriendService) Train(ctx context.Context, kind classifier.Kind) (classifier.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.nowFn()
	if !kind.Valid() {
		err := fmt.Errorf("%w: %d", domain.ErrInvalidClassifierKind, int(kind))
		metrics.RecordTraining("invalid", 0, 0, 0, err)
		return classifier.Report{}, err
	}

	ds, err := s.builder.Build(s.session.Store())
	if err != nil {
		metrics.RecordTraining(kind.String(), s.nowFn().Sub(start), 0, 0, err)
		return classifier.Report{}, fmt.Errorf("build dataset: %w", err)
	}
	report, err := s.model.Train(ctx, ds, kind)
	metrics.RecordTraining(kind.String(), s.nowFn().Sub(start), report.TrainAccuracy, report.TestAccuracy, err)
	if err != nil {
		return classifier.Report{}, err
	}

	s.opts.Kind = kind
	s.trainedVersion = s.session.Version()
	metrics.SetModelStale(false)
	return report, nil
}

// Recommend returns ranked friend-of-friend candidates for userID, truncated
// to the requested limit.
func (s *FriendService) Recommend(ctx context.Context, userID string, params RecommendParams) (RecommendationsResult, error) {
	if err := ctx.Err(); err != nil {
		return RecommendationsResult{}, err
	}
	userID = normalizeID(userID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var opts []recommend.Option
	if params.Explain {
		opts = append(opts, recommend.WithExplanation())
	}

	start := s.nowFn()
	recs, err := s.engine.FindRecommendations(userID, opts...)
	metrics.RecordRecommendation(string(s.opts.Mode), len(recs), s.nowFn().Sub(start), err)
	if err != nil {
		return RecommendationsResult{}, err
	}

	total := len(recs)
	limit := s.normalizeLimit(params.Limit)
	if len(recs) > limit {
		recs = recs[:limit]
	}

	s.logger.Debug("recommendations served",
		"user_id", userID,
		"candidates", total,
		"returned", len(recs),
	)
	return RecommendationsResult{
		UserID:          userID,
		Mode:            s.opts.Mode,
		Recommendations: recs,
		Total:           total,
		ModelStale:      s.staleLocked(),
	}, nil
}

// Similarity returns the feature vector, blend score and, once a model is
// trained, the friendship probability for a pair of users.
func (s *FriendService) Similarity(ctx context.Context, a, b string) (SimilarityResult, error) {
	if err := ctx.Err(); err != nil {
		return SimilarityResult{}, err
	}
	a, b = normalizeID(a), normalizeID(b)

	s.mu.RLock()
	defer s.mu.RUnlock()

	fv, err := similarity.Features(s.session.Store(), a, b)
	if err != nil {
		return SimilarityResult{}, err
	}
	result := SimilarityResult{
		A:        a,
		B:        b,
		Features: fv,
		Blend:    similarity.Blend(fv),
		Friends:  s.session.Graph().HasEdge(a, b),
	}
	if s.model.Trained() {
		p, err := s.model.Predict(fv)
		if err != nil {
			return SimilarityResult{}, err
		}
		result.Probability = &p
	}
	return result, nil
}

// Profile returns a copy of the profile for id.
func (s *FriendService) Profile(_ context.Context, id string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Profile(normalizeID(id))
}

// ListProfiles retrieves paginated profiles matching provided filters, in
// load order.
func (s *FriendService) ListProfiles(_ context.Context, params ListProfilesParams) (ProfilesPage, error) {
	page, pageSize := normalizePagination(params.Page, params.PageSize)
	offset := (page - 1) * pageSize

	search := normalizeID(params.Search)
	location := strings.TrimSpace(params.Location)
	occupation := strings.TrimSpace(params.Occupation)

	s.mu.RLock()
	defer s.mu.RUnlock()

	store := s.session.Store()
	graph := s.session.Graph()

	items := make([]domain.ProfileSummary, 0, pageSize)
	var total int64
	for _, id := range store.IDs() {
		p, _ := store.Profile(id)
		if !containsFold(p.ID, search) || !containsFold(p.Location, location) || !containsFold(p.Occupation, occupation) {
			continue
		}
		total++
		if total <= int64(offset) || len(items) >= pageSize {
			continue
		}
		items = append(items, domain.ProfileSummary{
			ID:          p.ID,
			Age:         p.Age,
			Location:    p.Location,
			Occupation:  p.Occupation,
			FriendCount: graph.Degree(p.ID),
		})
	}

	return ProfilesPage{
		Items:      items,
		Pagination: buildPaginationMeta(page, pageSize, total),
	}, nil
}

// AddProfile validates and registers a new user together with its listed
// friendships.
func (s *FriendService) AddProfile(ctx context.Context, input ProfileInput) (domain.Profile, error) {
	if err := validateStruct(input); err != nil {
		return domain.Profile{}, err
	}
	profile := input.toDomain()
	if profile.ID == "" {
		return domain.Profile{}, &ValidationError{Fields: []FieldError{{Field: "ID", Tag: "required", Message: "ID is required"}}}
	}

	var stored domain.Profile
	_, err := s.applyEdit(ctx, "upsert_profile", func() (bool, error) {
		if err := s.session.AddProfile(profile); err != nil {
			return false, err
		}
		metrics.NetworkMutations.WithLabelValues("add_profile").Inc()
		p, err := s.session.Profile(profile.ID)
		stored = p
		return true, err
	}, func(repo NetworkRepository) error {
		if err := repo.UpsertProfile(ctx, stored); err != nil {
			return err
		}
		for _, friend := range stored.Friends {
			if _, err := repo.UpsertFriendship(ctx, stored.ID, friend); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return stored, nil
}

// AddFriendship connects two existing users. It reports whether the edge was
// new.
func (s *FriendService) AddFriendship(ctx context.Context, input FriendshipInput) (bool, error) {
	if err := validateStruct(input); err != nil {
		return false, err
	}
	a, b := normalizeID(input.A), normalizeID(input.B)

	return s.applyEdit(ctx, "upsert_friendship", func() (bool, error) {
		changed, err := s.session.AddFriendship(a, b)
		if changed {
			metrics.NetworkMutations.WithLabelValues("add_friendship").Inc()
		}
		return changed, err
	}, func(repo NetworkRepository) error {
		_, err := repo.UpsertFriendship(ctx, a, b)
		return err
	})
}

// RemoveFriendship disconnects two users. It reports whether an edge was
// removed.
func (s *FriendService) RemoveFriendship(ctx context.Context, a, b string) (bool, error) {
	a, b = normalizeID(a), normalizeID(b)

	return s.applyEdit(ctx, "delete_friendship", func() (bool, error) {
		changed, err := s.session.RemoveFriendship(a, b)
		if changed {
			metrics.NetworkMutations.WithLabelValues("remove_friendship").Inc()
		}
		return changed, err
	}, func(repo NetworkRepository) error {
		_, err := repo.DeleteFriendship(ctx, a, b)
		return err
	})
}

// applyEdit runs edit under the write lock and mirrors a successful change
// after releasing it, so a slow graph database never stalls queries.
// mirrorMu keeps mirror writes in the order the edits were applied.
func (s *FriendService) applyEdit(ctx context.Context, op string, edit func() (bool, error), mirrorFn func(NetworkRepository) error) (bool, error) {
	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()

	s.mu.Lock()
	changed, err := edit()
	if changed {
		s.afterMutationLocked()
	}
	s.mu.Unlock()

	if err != nil || !changed {
		return changed, err
	}
	s.mirror(ctx, op, mirrorFn)
	return true, nil
}

// ModelStatus reports the classifier state against the current network.
func (s *FriendService) ModelStatus() ModelStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := ModelStatus{
		Kind:           s.opts.Kind,
		Mode:           s.opts.Mode,
		Trained:        s.model.Trained(),
		Stale:          s.staleLocked(),
		NetworkVersion: s.session.Version(),
		TrainedVersion: s.trainedVersion,
		CheckedAt:      s.nowFn().UTC(),
	}
	if report, ok := s.model.Report(); ok {
		status.Report = &report
	}
	return status
}

// Stats returns the current network size.
func (s *FriendService) Stats() NetworkStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NetworkStats{
		Users:       s.session.Graph().NodeCount(),
		Friendships: s.session.Graph().EdgeCount(),
		Version:     s.session.Version(),
	}
}

// Snapshot returns copies of every profile in load order.
func (s *FriendService) Snapshot() []domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Snapshot()
}

// Export writes every profile as "csv" or "json".
func (s *FriendService) Export(_ context.Context, w io.Writer, format string) error {
	profiles := s.Snapshot()
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "csv":
		return profilecsv.Write(w, profiles)
	case "json":
		return profilecsv.WriteJSON(w, profiles)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Sync mirrors the whole network into the repository.
func (s *FriendService) Sync(ctx context.Context, workers int) (IngestSummary, error) {
	if s.repo == nil {
		return IngestSummary{}, errors.New("no graph repository configured")
	}
	return NewBulkIngestor(s.logger, s.repo, workers).IngestNetwork(ctx, s.Snapshot())
}

func (s *FriendService) staleLocked() bool {
	return s.model.Trained() && s.trainedVersion != s.session.Version()
}

func (s *FriendService) afterMutationLocked() {
	s.publishNetworkSize()
	metrics.SetModelStale(s.staleLocked())
}

func (s *FriendService) publishNetworkSize() {
	graph := s.session.Graph()
	metrics.SetNetworkSize(graph.NodeCount(), graph.EdgeCount())
}

// mirror applies fn to the repository. The in-memory network is
// authoritative, so mirror failures are logged and counted, not returned.
func (s *FriendService) mirror(ctx context.Context, op string, fn func(NetworkRepository) error) {
	if s.repo == nil {
		return
	}
	if err := fn(s.repo); err != nil {
		metrics.GraphMirrorErrors.WithLabelValues(op).Inc()
		s.logger.WarnContext(ctx, "graph mirror failed", "operation", op, "error", err)
	}
}

func (s *FriendService) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

// LoadProfiles reads the network either from a CSV file (source "csv") or
// from the graph repository (source "graph").
func LoadProfiles(ctx context.Context, source, path string, repo NetworkRepository) ([]domain.Profile, error) {
	switch strings.ToLower(source) {
	case "", "csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open profiles: %w", err)
		}
		defer file.Close()
		profiles, err := profilecsv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return profiles, nil
	case "graph":
		if repo == nil {
			return nil, errors.New("graph source requires a graph repository")
		}
		return repo.LoadProfiles(ctx)
	default:
		return nil, fmt.Errorf("unknown data source %q", source)
	}
}

func normalizePagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

func buildPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
		if total > 0 && totalPages == 0 {
			totalPages = 1
		}
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
