package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "knn", cfg.Classifier.Kind)
	assert.Equal(t, 0.3, cfg.Classifier.TestFraction)
	assert.Equal(t, int64(42), cfg.Classifier.Seed)
	assert.Equal(t, "probability", cfg.Recommend.Mode)
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
http:
  port: 9090
  read_timeout: 3s
classifier:
  kind: random_forest
  forest_trees: 20
recommend:
  mode: blend
data:
  path: /srv/profiles.csv
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("GRAPH_URI", "bolt://localhost:7687")
	t.Setenv("CLASSIFIER_KIND", "SVM")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, "svm", cfg.Classifier.Kind)
	assert.Equal(t, 20, cfg.Classifier.ForestTrees)
	assert.Equal(t, "blend", cfg.Recommend.Mode)
	assert.Equal(t, "/srv/profiles.csv", cfg.Data.Path)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port out of range", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "unknown classifier", env: map[string]string{"CLASSIFIER_KIND": "quantum"}},
		{name: "unknown mode", env: map[string]string{"RECOMMEND_MODE": "vibes"}},
		{name: "zero seed", env: map[string]string{"CLASSIFIER_SEED": "0"}},
		{name: "test fraction", env: map[string]string{"CLASSIFIER_TEST_FRACTION": "1.5"}},
		{name: "csv without path", env: map[string]string{"DATA_PATH": ""}},
		{name: "limits", env: map[string]string{"RECOMMEND_DEFAULT_LIMIT": "50", "RECOMMEND_MAX_LIMIT": "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFile("")
			require.Error(t, err)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := HTTPConfig{AllowedOriginsCSV: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
	assert.Nil(t, HTTPConfig{}.AllowedOrigins())
}
