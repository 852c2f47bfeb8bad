package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rohankatakam/playlistlog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requiredEnv = map[string]string{
	"GITHUB_TOKEN":       "gh-token",
	"REPO_OWNER":         "someone",
	"REPO_NAME":          "spotify-log",
	"GCP_ACCESS_TOKEN":   "gcp-token",
	"BQ_PROJECT_ID":      "proj",
	"BQ_DATASET_ID":      "ds",
	"BQ_ACTION_TABLE_ID": "actions",
	"BQ_TRACK_TABLE_ID":  "tracks",
	"BQ_ARTIST_TABLE_ID": "artists",
}

// isolate runs the test in an empty directory with every binding unset
func isolate(t *testing.T) {
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, env := range envBindings {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func setRequired(t *testing.T) {
	for k, v := range requiredEnv {
		t.Setenv(k, v)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv("GITHUB_RATE_LIMIT", "25")
	t.Setenv("FETCH_CONCURRENCY", "8")
	t.Setenv("BQ_ENDPOINT", "http://localhost:9050/bigquery/v2/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gh-token", cfg.GitHub.Token)
	assert.Equal(t, "someone", cfg.GitHub.Owner)
	assert.Equal(t, "spotify-log", cfg.GitHub.Repo)
	assert.Equal(t, 25, cfg.GitHub.RateLimit)
	assert.Equal(t, 8, cfg.GitHub.FetchConcurrency)
	assert.Equal(t, "gcp-token", cfg.BigQuery.AccessToken)
	assert.Equal(t, "proj", cfg.BigQuery.ProjectID)
	assert.Equal(t, "ds", cfg.BigQuery.DatasetID)
	assert.Equal(t, "actions", cfg.BigQuery.ActionTableID)
	assert.Equal(t, "tracks", cfg.BigQuery.TrackTableID)
	assert.Equal(t, "artists", cfg.BigQuery.ArtistTableID)
	assert.Equal(t, "http://localhost:9050/bigquery/v2/", cfg.BigQuery.Endpoint)

	result := cfg.Validate()
	assert.False(t, result.HasErrors(), result.Error())
	assert.NoError(t, result.Err())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/", cfg.GitHub.RawURL)
	assert.Empty(t, cfg.GitHub.APIURL)
	assert.Equal(t, 10, cfg.GitHub.RateLimit)
	assert.Equal(t, 4, cfg.GitHub.FetchConcurrency)
	assert.Empty(t, cfg.Cache.Path)
	assert.Empty(t, cfg.BigQuery.Endpoint)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("REPO_NAME", "from-env")

	dotenv := "REPO_OWNER=from-dotenv\nREPO_NAME=from-dotenv\nGITHUB_TOKEN=dotenv-token\n"
	require.NoError(t, os.WriteFile(".env", []byte(dotenv), 0o600))
	require.NoError(t, os.WriteFile(".env.local", []byte("GITHUB_TOKEN=local-token\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.GitHub.Owner)
	assert.Equal(t, "from-env", cfg.GitHub.Repo)
	assert.Equal(t, "local-token", cfg.GitHub.Token)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv("BQ_DATASET_ID", "env-dataset")

	path := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := `
github:
  owner: file-owner
  fetch_concurrency: 2
bigquery:
  dataset_id: file-dataset
cache:
  path: /tmp/playlistlog.db
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-owner", cfg.GitHub.Owner)
	assert.Equal(t, 2, cfg.GitHub.FetchConcurrency)
	assert.Equal(t, "env-dataset", cfg.BigQuery.DatasetID)
	assert.Equal(t, "/tmp/playlistlog.db", cfg.Cache.Path)
}

func TestLoadIgnoresBinaryNamedLikeConfig(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_TOKEN", "gh-token")

	// A built binary sits next to the config under the same stem
	binary := []byte("\x7fELF\x02\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	require.NoError(t, os.WriteFile("playlistlog", binary, 0o755))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gh-token", cfg.GitHub.Token)
}

func TestLoadDefaultConfigFileFromWorkingDirectory(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("playlistlog", []byte("\x00\x01"), 0o755))
	require.NoError(t, os.WriteFile("playlistlog.yaml", []byte("github:\n  owner: cwd-owner\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "cwd-owner", cfg.GitHub.Owner)
}

func TestLoadRejectsMalformedDefaultConfigFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("playlistlog.yaml", []byte("github: [unclosed\n"), 0o600))

	_, err := Load("")
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsEveryMissingVariable(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	result := cfg.Validate()
	require.True(t, result.HasErrors())
	for name := range requiredEnv {
		assert.Contains(t, result.Error(), name+" is required but not set")
	}
	assert.Len(t, result.Errors, len(requiredEnv))

	err = result.Err()
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConfig, errors.GetType(err))
}

func TestValidateSingleMissingVariable(t *testing.T) {
	isolate(t)
	setRequired(t)
	require.NoError(t, os.Unsetenv("BQ_TRACK_TABLE_ID"))

	cfg, err := Load("")
	require.NoError(t, err)

	result := cfg.Validate()
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "BQ_TRACK_TABLE_ID is required but not set", result.Errors[0])
}

func TestValidateOptionalSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
		wantOK  bool
	}{
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.GitHub.RateLimit = -1 },
			wantErr: "GITHUB_RATE_LIMIT must not be negative",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.GitHub.FetchConcurrency = 0 },
			wantErr: "FETCH_CONCURRENCY must be at least 1",
		},
		{
			name:    "non http endpoint",
			mutate:  func(c *Config) { c.BigQuery.Endpoint = "ftp://example.com/" },
			wantErr: "BQ_ENDPOINT must be an http(s) URL",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "LOG_LEVEL is invalid",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT must be text or json",
		},
		{
			name:   "unthrottled is only a warning",
			mutate: func(c *Config) { c.GitHub.RateLimit = 0 },
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			result := cfg.Validate()
			if tt.wantOK {
				assert.False(t, result.HasErrors(), result.Error())
				assert.NotEmpty(t, result.Warnings)
				return
			}
			require.True(t, result.HasErrors())
			assert.Contains(t, result.Error(), tt.wantErr)
		})
	}
}

func TestValidationResultError(t *testing.T) {
	result := &ValidationResult{Valid: true}
	assert.Equal(t, "", result.Error())
	assert.NoError(t, result.Err())

	result.AddWarning("heads up")
	assert.False(t, result.HasErrors())

	result.AddError("%s is required but not set", "REPO_NAME")
	assert.True(t, result.HasErrors())
	assert.Contains(t, result.Error(), "REPO_NAME is required but not set")
	assert.Contains(t, result.Error(), "heads up")
}

func validConfig() *Config {
	cfg := Default()
	cfg.GitHub.Token = "gh-token"
	cfg.GitHub.Owner = "someone"
	cfg.GitHub.Repo = "spotify-log"
	cfg.BigQuery = BigQueryConfig{
		AccessToken:   "gcp-token",
		ProjectID:     "proj",
		DatasetID:     "ds",
		ActionTableID: "actions",
		TrackTableID:  "tracks",
		ArtistTableID: "artists",
	}
	return cfg
}
