package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rohankatakam/playlistlog/internal/errors"
	"github.com/sirupsen/logrus"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn))
		}
	}

	return sb.String()
}

// Err returns the result as a configuration error, or nil when valid
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	return errors.ConfigErrorf("%s", strings.TrimRight(vr.Error(), "\n")).
		WithContext("error_count", len(vr.Errors))
}

// Validate checks that every required setting is present and the optional
// ones are usable
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	c.validateGitHub(result)
	c.validateBigQuery(result)
	c.validateLogging(result)

	return result
}

func (c *Config) validateGitHub(result *ValidationResult) {
	required(result, "GITHUB_TOKEN", c.GitHub.Token)
	required(result, "REPO_OWNER", c.GitHub.Owner)
	required(result, "REPO_NAME", c.GitHub.Repo)

	validURL(result, "GITHUB_API_URL", c.GitHub.APIURL)
	validURL(result, "GITHUB_RAW_URL", c.GitHub.RawURL)

	if c.GitHub.RateLimit < 0 {
		result.AddError("GITHUB_RATE_LIMIT must not be negative (got %d)", c.GitHub.RateLimit)
	} else if c.GitHub.RateLimit == 0 {
		result.AddWarning("GITHUB_RATE_LIMIT is 0, API requests will not be throttled")
	}

	if c.GitHub.FetchConcurrency < 1 {
		result.AddError("FETCH_CONCURRENCY must be at least 1 (got %d)", c.GitHub.FetchConcurrency)
	}
}

func (c *Config) validateBigQuery(result *ValidationResult) {
	required(result, "GCP_ACCESS_TOKEN", c.BigQuery.AccessToken)
	required(result, "BQ_PROJECT_ID", c.BigQuery.ProjectID)
	required(result, "BQ_DATASET_ID", c.BigQuery.DatasetID)
	required(result, "BQ_ACTION_TABLE_ID", c.BigQuery.ActionTableID)
	required(result, "BQ_TRACK_TABLE_ID", c.BigQuery.TrackTableID)
	required(result, "BQ_ARTIST_TABLE_ID", c.BigQuery.ArtistTableID)

	validURL(result, "BQ_ENDPOINT", c.BigQuery.Endpoint)
}

func (c *Config) validateLogging(result *ValidationResult) {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		result.AddError("LOG_LEVEL is invalid: %v", err)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		result.AddError("LOG_FORMAT must be text or json (got %q)", c.Logging.Format)
	}
}

func required(result *ValidationResult, name, value string) {
	if strings.TrimSpace(value) == "" {
		result.AddError("%s is required but not set", name)
	}
}

func validURL(result *ValidationResult, name, value string) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil {
		result.AddError("%s is invalid: %v", name, err)
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		result.AddError("%s must be an http(s) URL (got %q)", name, value)
	}
}
