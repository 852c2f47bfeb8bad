package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/rohankatakam/playlistlog/internal/errors"
	"github.com/rohankatakam/playlistlog/internal/models"
	"github.com/rohankatakam/playlistlog/internal/playlistlog"
	"github.com/rohankatakam/playlistlog/internal/tables"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CommitSource lists and fetches the commits of the playlist log
type CommitSource interface {
	ListCommitSHAs(ctx context.Context) ([]string, error)
	FetchCommit(ctx context.Context, sha string) (*models.Commit, error)
}

// RowInserter appends rows to a warehouse table
type RowInserter interface {
	InsertRows(ctx context.Context, tableID string, rows []any) error
}

// Tables names the destination table of each row kind
type Tables struct {
	Action string
	Track  string
	Artist string
}

// Orchestrator coordinates one load of the playlist log into the warehouse
type Orchestrator struct {
	source      CommitSource
	sink        RowInserter
	tables      Tables
	concurrency int
	logger      *logrus.Logger
}

// NewOrchestrator creates a new ingestion orchestrator
func NewOrchestrator(
	source CommitSource,
	sink RowInserter,
	tables Tables,
	concurrency int,
	logger *logrus.Logger,
) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Orchestrator{
		source:      source,
		sink:        sink,
		tables:      tables,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Result contains the results of a load
type Result struct {
	CommitCount int
	ActionCount int
	Skipped     map[playlistlog.SkipReason]int
	ActionRows  int
	TrackRows   int
	ArtistRows  int
	// InsertErrors holds the failed insert of each table, keyed by table id
	InsertErrors map[string]error
	Duration     time.Duration
}

// Run loads the whole history. It fails only when the history cannot be
// read; a rejected insert is recorded in the result and the remaining
// tables are still attempted.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	o.logger.Info("Starting playlist log ingestion")

	result := &Result{
		Skipped:      make(map[playlistlog.SkipReason]int),
		InsertErrors: make(map[string]error),
	}

	// Phase 1: Fetch history
	commits, err := o.fetchHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	result.CommitCount = len(commits)

	// Phase 2: Reconstruct actions in commit order
	actions := o.reconstruct(commits, result)
	result.ActionCount = len(actions)

	// Phase 3: Shape and insert rows
	rows := tables.Shape(actions)
	result.ActionRows = len(rows.Actions)
	result.TrackRows = len(rows.Tracks)
	result.ArtistRows = len(rows.Artists)

	o.insert(ctx, o.tables.Action, tables.AsAny(rows.Actions), result)
	o.insert(ctx, o.tables.Track, tables.AsAny(rows.Tracks), result)
	o.insert(ctx, o.tables.Artist, tables.AsAny(rows.Artists), result)

	result.Duration = time.Since(startTime)

	fields := logrus.Fields{
		"duration":      result.Duration.String(),
		"commits":       result.CommitCount,
		"actions":       result.ActionCount,
		"action_rows":   result.ActionRows,
		"track_rows":    result.TrackRows,
		"artist_rows":   result.ArtistRows,
		"insert_errors": len(result.InsertErrors),
	}
	for reason, n := range result.Skipped {
		fields["skipped_"+string(reason)] = n
	}
	o.logger.WithFields(fields).Info("Playlist log ingestion completed")

	return result, nil
}

// fetchHistory fetches every commit, oldest first. The first failed fetch
// cancels the rest.
func (o *Orchestrator) fetchHistory(ctx context.Context) ([]*models.Commit, error) {
	shas, err := o.source.ListCommitSHAs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	o.logger.WithField("commits", len(shas)).Info("Listed commits")

	commits := make([]*models.Commit, len(shas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, sha := range shas {
		i, sha := i, sha
		g.Go(func() error {
			commit, err := o.source.FetchCommit(gctx, sha)
			if err != nil {
				return fmt.Errorf("commit %s: %w", sha, err)
			}
			commits[i] = commit
			if (i+1)%100 == 0 {
				o.logger.WithFields(logrus.Fields{
					"fetched": i + 1,
					"total":   len(shas),
				}).Debug("Fetching commits")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}

func (o *Orchestrator) reconstruct(commits []*models.Commit, result *Result) []models.TrackRelatedAction {
	var actions []models.TrackRelatedAction

	for _, commit := range commits {
		action, reason := playlistlog.Reconstruct(commit)
		if action != nil {
			actions = append(actions, *action)
			continue
		}
		result.Skipped[reason]++

		if !reason.IsSnapshotFailure() {
			continue
		}
		entry := o.logger.WithFields(logrus.Fields{
			"sha":     commit.SHA,
			"message": commit.Message,
			"reason":  string(reason),
		})
		if o.logger.IsLevelEnabled(logrus.DebugLevel) {
			entry = entry.WithField("diff", playlistlog.SnapshotDiff(commit.Files[0]))
		}
		entry.Warn("Dropped log commit")
	}

	return actions
}

func (o *Orchestrator) insert(ctx context.Context, tableID string, rows []any, result *Result) {
	if err := o.sink.InsertRows(ctx, tableID, rows); err != nil {
		o.logger.WithError(err).WithFields(errors.Fields(err)).WithFields(logrus.Fields{
			"table": tableID,
			"rows":  len(rows),
		}).Error("Failed to insert rows")
		result.InsertErrors[tableID] = err
	}
}
