package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationQueries.WithLabelValues("blend", "success"))
	beforeErr := testutil.ToFloat64(RecommendationQueries.WithLabelValues("blend", "error"))

	RecordRecommendation("blend", 4, 3*time.Millisecond, nil)
	RecordRecommendation("blend", 0, time.Millisecond, errors.New("unknown user"))

	if got := testutil.ToFloat64(RecommendationQueries.WithLabelValues("blend", "success")); got != before+1 {
		t.Errorf("success counter = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(RecommendationQueries.WithLabelValues("blend", "error")); got != beforeErr+1 {
		t.Errorf("error counter = %v, want %v", got, beforeErr+1)
	}
}

func TestRecordTraining(t *testing.T) {
	RecordTraining("knn", 20*time.Millisecond, 0.95, 0.9, nil)

	if got := testutil.ToFloat64(ModelAccuracy.WithLabelValues("knn", "test")); got != 0.9 {
		t.Errorf("test accuracy gauge = %v, want 0.9", got)
	}

	before := testutil.ToFloat64(TrainingRuns.WithLabelValues("svm", "error"))
	RecordTraining("svm", 0, 0, 0, errors.New("insufficient data"))
	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("svm", "error")); got != before+1 {
		t.Errorf("error runs = %v, want %v", got, before+1)
	}
}

func TestGauges(t *testing.T) {
	SetNetworkSize(12, 30)
	if got := testutil.ToFloat64(NetworkUsers); got != 12 {
		t.Errorf("users = %v", got)
	}
	if got := testutil.ToFloat64(NetworkFriendships); got != 30 {
		t.Errorf("friendships = %v", got)
	}

	SetModelStale(true)
	if got := testutil.ToFloat64(ModelStale); got != 1 {
		t.Errorf("stale = %v", got)
	}
	SetModelStale(false)
	if got := testutil.ToFloat64(ModelStale); got != 0 {
		t.Errorf("stale = %v", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/users", "200"))
	RecordAPIRequest("GET", "/users", 200, 5*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/users", "200")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}
