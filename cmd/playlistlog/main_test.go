package main

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/rohankatakam/playlistlog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFailsFastOnMissingConfiguration(t *testing.T) {
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, env := range []string{
		"GITHUB_TOKEN", "REPO_OWNER", "REPO_NAME", "GCP_ACCESS_TOKEN", "BQ_PROJECT_ID",
		"BQ_DATASET_ID", "BQ_ACTION_TABLE_ID", "BQ_TRACK_TABLE_ID", "BQ_ARTIST_TABLE_ID",
	} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	t.Setenv("REPO_OWNER", "someone")
	// Unroutable endpoints: any network access would surface as a different error
	t.Setenv("GITHUB_API_URL", "http://127.0.0.1:1/")
	t.Setenv("BQ_ENDPOINT", "http://127.0.0.1:1/bigquery/v2/")

	rootCmd.SetArgs([]string{})
	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConfig, errors.GetType(err))
	assert.Contains(t, err.Error(), "GITHUB_TOKEN is required but not set")
	assert.NotContains(t, err.Error(), "REPO_OWNER")
}

func TestExitMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "configuration",
			err:  errors.ConfigErrorf("GITHUB_TOKEN is required but not set"),
			want: "Configuration error:\nGITHUB_TOKEN is required but not set",
		},
		{
			name: "network",
			err:  fmt.Errorf("failed to fetch history: %w", errors.NetworkErrorf(fmt.Errorf("timeout"), "fetch commit c1")),
			want: "Network error: failed to fetch history: fetch commit c1: timeout",
		},
		{
			name: "untyped",
			err:  fmt.Errorf("boom"),
			want: "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitMessage(tt.err))
		})
	}
}
