package playlistlog

import (
	"time"

	"github.com/rohankatakam/playlistlog/internal/models"
)

// LogCommitterName is the automation account that writes the playlist log
const LogCommitterName = "GitHub Actions"

// LogStartedAt is when the backup job started producing log commits.
// Earlier commits were made by hand and do not follow the message format.
var LogStartedAt = time.Date(2019, time.October, 3, 0, 0, 0, 0, time.UTC)

// SkipReason explains why a commit produced no action
type SkipReason string

const (
	SkipNone               SkipReason = ""
	SkipCommitter          SkipReason = "committer"
	SkipBeforeCutoff       SkipReason = "before-cutoff"
	SkipUnclassified       SkipReason = "unclassified"
	SkipMissingFiles       SkipReason = "missing-files"
	SkipUnparsableSnapshot SkipReason = "unparsable-snapshot"
	SkipNoTrack            SkipReason = "no-track"
	SkipAmbiguousTransfer  SkipReason = "ambiguous-transfer"
	SkipInvalidAction      SkipReason = "invalid-action"
)

// IsSnapshotFailure reports whether the commit was classified as a track
// action but its snapshots could not be turned into one
func (r SkipReason) IsSnapshotFailure() bool {
	switch r {
	case SkipUnparsableSnapshot, SkipNoTrack, SkipAmbiguousTransfer, SkipInvalidAction:
		return true
	}
	return false
}

// Reconstruct turns a log commit into at most one track action. When no
// action is produced the returned reason says why.
func Reconstruct(commit *models.Commit) (*models.TrackRelatedAction, SkipReason) {
	if commit.CommitterName != LogCommitterName {
		return nil, SkipCommitter
	}
	if commit.Datetime.Before(LogStartedAt) {
		return nil, SkipBeforeCutoff
	}

	actionType, ok := ClassifyMessage(commit.Message)
	if !ok {
		return nil, SkipUnclassified
	}
	if len(commit.Files) == 0 {
		return nil, SkipMissingFiles
	}

	var (
		action *models.TrackRelatedAction
		reason SkipReason
	)
	switch actionType {
	case models.ActionAddition:
		action, reason = reconstructAddition(commit)
	case models.ActionRemoval:
		action, reason = reconstructRemoval(commit)
	case models.ActionTransfer:
		action, reason = reconstructTransfer(commit)
	case models.ActionModification:
		action, reason = reconstructModification(commit)
	}
	if action == nil {
		return nil, reason
	}

	if err := action.Validate(); err != nil {
		return nil, SkipInvalidAction
	}
	return action, SkipNone
}

func parseBeforeAfter(file models.CommitFile) (before, after *models.Playlist, ok bool) {
	before, err := ParseSnapshot(file.Before)
	if err != nil {
		return nil, nil, false
	}
	after, err = ParseSnapshot(file.After)
	if err != nil {
		return nil, nil, false
	}
	return before, after, true
}

func reconstructAddition(commit *models.Commit) (*models.TrackRelatedAction, SkipReason) {
	before, after, ok := parseBeforeAfter(commit.Files[0])
	if !ok {
		return nil, SkipUnparsableSnapshot
	}
	track, ok := IdentifyExtraTrack(before, after)
	if !ok {
		return nil, SkipNoTrack
	}
	return &models.TrackRelatedAction{
		Datetime:              commit.Datetime,
		ActionType:            models.ActionAddition,
		DestinationPlaylistID: models.StringPtr(after.ID),
		Track:                 track,
	}, SkipNone
}

func reconstructRemoval(commit *models.Commit) (*models.TrackRelatedAction, SkipReason) {
	before, after, ok := parseBeforeAfter(commit.Files[0])
	if !ok {
		return nil, SkipUnparsableSnapshot
	}
	track, ok := IdentifyExtraTrack(before, after)
	if !ok {
		return nil, SkipNoTrack
	}
	return &models.TrackRelatedAction{
		Datetime:         commit.Datetime,
		ActionType:       models.ActionRemoval,
		SourcePlaylistID: models.StringPtr(before.ID),
		Track:            track,
	}, SkipNone
}

// reconstructTransfer expects exactly two files: the destination gained
// lines and the source did not. Any other shape is dropped.
func reconstructTransfer(commit *models.Commit) (*models.TrackRelatedAction, SkipReason) {
	if len(commit.Files) != 2 {
		return nil, SkipAmbiguousTransfer
	}
	first, second := commit.Files[0], commit.Files[1]
	if (first.AddedLineCount > 0) == (second.AddedLineCount > 0) {
		return nil, SkipAmbiguousTransfer
	}
	source, destination := first, second
	if first.AddedLineCount > 0 {
		source, destination = second, first
	}

	sourceBefore, err := ParseSnapshot(source.Before)
	if err != nil {
		return nil, SkipUnparsableSnapshot
	}
	destinationBefore, destinationAfter, ok := parseBeforeAfter(destination)
	if !ok {
		return nil, SkipUnparsableSnapshot
	}

	track, ok := IdentifyExtraTrack(destinationBefore, destinationAfter)
	if !ok {
		return nil, SkipNoTrack
	}
	return &models.TrackRelatedAction{
		Datetime:              commit.Datetime,
		ActionType:            models.ActionTransfer,
		SourcePlaylistID:      models.StringPtr(sourceBefore.ID),
		DestinationPlaylistID: models.StringPtr(destinationAfter.ID),
		Track:                 track,
	}, SkipNone
}

func reconstructModification(commit *models.Commit) (*models.TrackRelatedAction, SkipReason) {
	before, after, ok := parseBeforeAfter(commit.Files[0])
	if !ok {
		return nil, SkipUnparsableSnapshot
	}
	track, ok := IdentifyModifiedTrack(before, after)
	if !ok {
		return nil, SkipNoTrack
	}
	return &models.TrackRelatedAction{
		Datetime:              commit.Datetime,
		ActionType:            models.ActionModification,
		SourcePlaylistID:      models.StringPtr(after.ID),
		DestinationPlaylistID: models.StringPtr(after.ID),
		Track:                 track,
	}, SkipNone
}
