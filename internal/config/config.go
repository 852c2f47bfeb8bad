package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Playlist log repository
	GitHub GitHubConfig `mapstructure:"github"`

	// Raw content cache
	Cache CacheConfig `mapstructure:"cache"`

	// Warehouse destination
	BigQuery BigQueryConfig `mapstructure:"bigquery"`

	Logging LoggingConfig `mapstructure:"logging"`
}

type GitHubConfig struct {
	Token            string `mapstructure:"token"`
	Owner            string `mapstructure:"owner"`
	Repo             string `mapstructure:"repo"`
	APIURL           string `mapstructure:"api_url"`
	RawURL           string `mapstructure:"raw_url"`
	RateLimit        int    `mapstructure:"rate_limit"`        // Requests per second
	FetchConcurrency int    `mapstructure:"fetch_concurrency"` // Commits fetched in parallel
}

type CacheConfig struct {
	Path string `mapstructure:"path"` // bbolt file or redis:// URL, empty disables caching
}

type BigQueryConfig struct {
	AccessToken   string `mapstructure:"access_token"`
	ProjectID     string `mapstructure:"project_id"`
	DatasetID     string `mapstructure:"dataset_id"`
	ActionTableID string `mapstructure:"action_table_id"`
	TrackTableID  string `mapstructure:"track_table_id"`
	ArtistTableID string `mapstructure:"artist_table_id"`
	Endpoint      string `mapstructure:"endpoint"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
	File   string `mapstructure:"file"`
}

// envBindings maps config keys to the environment variables that set them
var envBindings = map[string]string{
	"github.token":             "GITHUB_TOKEN",
	"github.owner":             "REPO_OWNER",
	"github.repo":              "REPO_NAME",
	"github.api_url":           "GITHUB_API_URL",
	"github.raw_url":           "GITHUB_RAW_URL",
	"github.rate_limit":        "GITHUB_RATE_LIMIT",
	"github.fetch_concurrency": "FETCH_CONCURRENCY",
	"cache.path":               "CONTENT_CACHE_PATH",
	"bigquery.access_token":    "GCP_ACCESS_TOKEN",
	"bigquery.project_id":      "BQ_PROJECT_ID",
	"bigquery.dataset_id":      "BQ_DATASET_ID",
	"bigquery.action_table_id": "BQ_ACTION_TABLE_ID",
	"bigquery.track_table_id":  "BQ_TRACK_TABLE_ID",
	"bigquery.artist_table_id": "BQ_ARTIST_TABLE_ID",
	"bigquery.endpoint":        "BQ_ENDPOINT",
	"logging.level":            "LOG_LEVEL",
	"logging.format":           "LOG_FORMAT",
	"logging.file":             "LOG_FILE",
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			RawURL:           "https://github.com/",
			RateLimit:        10, // 10 requests per second
			FetchConcurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

const defaultConfigFile = "playlistlog.yaml"

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. Dot-env files in the working
// directory are loaded first without overriding variables that are already set.
// An empty path looks for playlistlog.yaml in the working directory.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("github.raw_url", cfg.GitHub.RawURL)
	v.SetDefault("github.rate_limit", cfg.GitHub.RateLimit)
	v.SetDefault("github.fetch_concurrency", cfg.GitHub.FetchConcurrency)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path == "" {
		// Only the exact file name is looked up, the built binary shares its stem
		path = defaultConfigFile
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			// godotenv never overrides variables that are already set
			_ = godotenv.Load(file)
		}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
