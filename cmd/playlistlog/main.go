package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rohankatakam/playlistlog/internal/cache"
	"github.com/rohankatakam/playlistlog/internal/config"
	"github.com/rohankatakam/playlistlog/internal/errors"
	"github.com/rohankatakam/playlistlog/internal/github"
	"github.com/rohankatakam/playlistlog/internal/ingestion"
	"github.com/rohankatakam/playlistlog/internal/logging"
	"github.com/rohankatakam/playlistlog/internal/warehouse"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, exitMessage(err))
		stop()
		os.Exit(1)
	}
}

// exitMessage formats a failed run for stderr
func exitMessage(err error) string {
	switch errors.GetType(err) {
	case errors.ErrorTypeConfig:
		return fmt.Sprintf("Configuration error:\n%v", err)
	case errors.ErrorTypeNetwork:
		return fmt.Sprintf("Network error: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "playlistlog",
	Short: "Load the Spotify playlist log into BigQuery",
	Long: `playlistlog replays the commit history of a repository that logs Spotify
playlist snapshots, reconstructs every track addition, removal, transfer and
modification, and streams the resulting action, track and artist rows into
BigQuery.

Configuration comes from the environment (and .env files in the working
directory).`,
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.SetVersionTemplate(`playlistlog {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Configuration is checked before anything touches the network
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.Validate().Err(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		JSONFormat: strings.EqualFold(cfg.Logging.Format, "json"),
		OutputFile: cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer logger.Close()

	runID := uuid.New().String()
	logging.AddStaticField(logger.Logger, "run_id", runID)
	logger.WithFields(logrus.Fields{
		"version": Version,
		"repo":    cfg.GitHub.Owner + "/" + cfg.GitHub.Repo,
		"project": cfg.BigQuery.ProjectID,
		"dataset": cfg.BigQuery.DatasetID,
	}).Info("Starting playlistlog")

	ghOpts := github.Options{
		Token:      cfg.GitHub.Token,
		Owner:      cfg.GitHub.Owner,
		Name:       cfg.GitHub.Repo,
		APIBaseURL: cfg.GitHub.APIURL,
		RawBaseURL: cfg.GitHub.RawURL,
		RateLimit:  cfg.GitHub.RateLimit,
		Logger:     logger.Logger,
	}
	if cfg.Cache.Path != "" {
		contentCache, err := cache.Open(ctx, cfg.Cache.Path, logger.Logger)
		if err != nil {
			// The cache only saves requests, run without it
			logger.WithError(err).Warn("Content cache unavailable")
		} else {
			defer contentCache.Close()
			ghOpts.Cache = contentCache
		}
	}

	client, err := github.NewClient(ghOpts)
	if err != nil {
		return err
	}

	sink, err := warehouse.NewSink(ctx, warehouse.Options{
		AccessToken: cfg.BigQuery.AccessToken,
		ProjectID:   cfg.BigQuery.ProjectID,
		DatasetID:   cfg.BigQuery.DatasetID,
		Endpoint:    cfg.BigQuery.Endpoint,
		Logger:      logger.Logger,
	})
	if err != nil {
		return err
	}

	orchestrator := ingestion.NewOrchestrator(
		client,
		sink,
		ingestion.Tables{
			Action: cfg.BigQuery.ActionTableID,
			Track:  cfg.BigQuery.TrackTableID,
			Artist: cfg.BigQuery.ArtistTableID,
		},
		cfg.GitHub.FetchConcurrency,
		logger.Logger,
	)

	result, err := orchestrator.Run(ctx)
	if err != nil {
		logger.WithError(err).WithFields(errors.Fields(err)).Error("Ingestion failed")
		return err
	}

	// Rejected inserts are reported but do not fail the run
	for table, insertErr := range result.InsertErrors {
		fmt.Fprintf(os.Stderr, "Insert into %s failed: %v\n", table, insertErr)
	}
	return nil
}
