// Package config loads runtime configuration in three layers: built-in
// defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the variable that points at a YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/friendrec/config.yaml",
}

// Config aggregates application configuration values.
type Config struct {
	HTTP       HTTPConfig       `koanf:"http"`
	Graph      GraphConfig      `koanf:"graph"`
	Logging    LoggingConfig    `koanf:"logging"`
	Data       DataConfig       `koanf:"data"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Recommend  RecommendConfig  `koanf:"recommend"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `koanf:"host" validate:"required"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout       time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MetricsEnabled    bool          `koanf:"metrics_enabled"`
	AllowedOriginsCSV string        `koanf:"allowed_origins"`
}

// GraphConfig describes connectivity to the Neo4j mirror. An empty URI
// disables it.
type GraphConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	Username       string        `koanf:"username"`
	Password       string        `koanf:"password"`
	MaxConnections int           `koanf:"max_connections" validate:"gte=1"`
	QueryTimeout   time.Duration `koanf:"query_timeout" validate:"gte=0"`
	SyncOnStart    bool          `koanf:"sync_on_start"`
	SyncWorkers    int           `koanf:"sync_workers" validate:"gte=1"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format        string `koanf:"format" validate:"oneof=text json"`
	IncludeCaller bool   `koanf:"include_caller"`
}

// DataConfig says where the network is loaded from.
type DataConfig struct {
	Path   string `koanf:"path" validate:"required_if=Source csv"`
	Source string `koanf:"source" validate:"oneof=csv graph"`
}

// ClassifierConfig tunes model training.
type ClassifierConfig struct {
	Kind         string  `koanf:"kind" validate:"oneof=logistic decision_tree random_forest svm knn mlp"`
	TestFraction float64 `koanf:"test_fraction" validate:"gt=0,lt=1"`
	Seed         int64   `koanf:"seed" validate:"ne=0"`
	KNNNeighbors int     `koanf:"knn_neighbors" validate:"gte=1"`
	ForestTrees  int     `koanf:"forest_trees" validate:"gte=1"`
	TrainOnStart bool    `koanf:"train_on_start"`
}

// RecommendConfig selects the scoring mode and result sizes.
type RecommendConfig struct {
	Mode         string `koanf:"mode" validate:"oneof=probability blend"`
	DefaultLimit int    `koanf:"default_limit" validate:"gte=1"`
	MaxLimit     int    `koanf:"max_limit" validate:"gtefield=DefaultLimit"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Graph: GraphConfig{
			MaxConnections: 10,
			QueryTimeout:   30 * time.Second,
			SyncWorkers:    4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Data: DataConfig{
			Path:   "user_profiles.csv",
			Source: "csv",
		},
		Classifier: ClassifierConfig{
			Kind:         "knn",
			TestFraction: 0.3,
			Seed:         42,
			KNNNeighbors: 3,
			ForestTrees:  50,
			TrainOnStart: true,
		},
		Recommend: RecommendConfig{
			Mode:         "probability",
			DefaultLimit: 10,
			MaxLimit:     200,
		},
	}
}

// Load reads configuration from the file named by CONFIG_PATH (or the first
// of DefaultConfigPaths that exists) and the environment.
func Load() (Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Classifier.Kind = strings.ToLower(strings.TrimSpace(cfg.Classifier.Kind))
	cfg.Recommend.Mode = strings.ToLower(strings.TrimSpace(cfg.Recommend.Mode))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// AllowedOrigins splits the CORS origin list.
func (c HTTPConfig) AllowedOrigins() []string {
	if c.AllowedOriginsCSV == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(c.AllowedOriginsCSV, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps environment variables to koanf paths. Variables not listed
// are ignored.
var envMappings = map[string]string{
	"server_host":             "http.host",
	"server_port":             "http.port",
	"server_read_timeout":     "http.read_timeout",
	"server_write_timeout":    "http.write_timeout",
	"server_idle_timeout":     "http.idle_timeout",
	"server_shutdown_timeout": "http.shutdown_timeout",
	"server_metrics_enabled":  "http.metrics_enabled",
	"server_allowed_origins":  "http.allowed_origins",

	"graph_uri":             "graph.uri",
	"graph_database":        "graph.database",
	"graph_username":        "graph.username",
	"graph_password":        "graph.password",
	"graph_max_connections": "graph.max_connections",
	"graph_query_timeout":   "graph.query_timeout",
	"graph_sync_on_start":   "graph.sync_on_start",
	"graph_sync_workers":    "graph.sync_workers",

	"log_level":          "logging.level",
	"log_format":         "logging.format",
	"log_include_caller": "logging.include_caller",

	"data_path":   "data.path",
	"data_source": "data.source",

	"classifier_kind":           "classifier.kind",
	"classifier_test_fraction":  "classifier.test_fraction",
	"classifier_seed":           "classifier.seed",
	"classifier_knn_neighbors":  "classifier.knn_neighbors",
	"classifier_forest_trees":   "classifier.forest_trees",
	"classifier_train_on_start": "classifier.train_on_start",

	"recommend_mode":          "recommend.mode",
	"recommend_default_limit": "recommend.default_limit",
	"recommend_max_limit":     "recommend.max_limit",
}

func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
