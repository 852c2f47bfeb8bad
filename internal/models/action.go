package models

import (
	"time"

	"github.com/rohankatakam/playlistlog/internal/errors"
)

// TrackRelatedActionType is the kind of event a log commit represents
type TrackRelatedActionType int

const (
	ActionAddition TrackRelatedActionType = iota
	ActionRemoval
	ActionTransfer
	ActionModification
)

// String returns the lowercase literal stored in the action table
func (t TrackRelatedActionType) String() string {
	switch t {
	case ActionAddition:
		return "addition"
	case ActionRemoval:
		return "removal"
	case ActionTransfer:
		return "transfer"
	case ActionModification:
		return "modification"
	default:
		return "unknown"
	}
}

// TrackRelatedAction is a typed event reconstructed from one log commit
type TrackRelatedAction struct {
	Datetime              time.Time
	ActionType            TrackRelatedActionType
	SourcePlaylistID      *string
	DestinationPlaylistID *string
	Track                 Track
}

// Validate checks the playlist id constraints of the action type:
//
//	addition:     destination only
//	removal:      source only
//	transfer:     both, distinct
//	modification: both, equal
func (a *TrackRelatedAction) Validate() error {
	src, dst := a.SourcePlaylistID, a.DestinationPlaylistID

	switch a.ActionType {
	case ActionAddition:
		if src != nil || dst == nil {
			return errors.ValidationErrorf("addition must carry only a destination playlist")
		}
	case ActionRemoval:
		if src == nil || dst != nil {
			return errors.ValidationErrorf("removal must carry only a source playlist")
		}
	case ActionTransfer:
		if src == nil || dst == nil {
			return errors.ValidationErrorf("transfer must carry source and destination playlists")
		}
		if *src == *dst {
			return errors.ValidationErrorf("transfer source and destination are both %q", *src)
		}
	case ActionModification:
		if src == nil || dst == nil || *src != *dst {
			return errors.ValidationErrorf("modification must carry equal source and destination playlists")
		}
	default:
		return errors.ValidationErrorf("unknown action type %d", int(a.ActionType))
	}
	return nil
}

// StringPtr returns a pointer to a copy of s
func StringPtr(s string) *string {
	return &s
}
