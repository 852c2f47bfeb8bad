package tables

import (
	"sort"
	"time"

	"github.com/rohankatakam/playlistlog/internal/models"
)

// ActionTableRow is one row of the action table
type ActionTableRow struct {
	Timestamp             string  `json:"timestamp"`
	ActionType            string  `json:"action_type"`
	SourcePlaylistID      *string `json:"source_playlist_id"`
	DestinationPlaylistID *string `json:"destination_playlist_id"`
	TrackID               string  `json:"track_id"`
}

// TrackTableRow is one row of the track table
type TrackTableRow struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ArtistIDs []string `json:"artist_ids"`
}

// ArtistTableRow is one row of the artist table
type ArtistTableRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Rows holds the three row sets produced from a stream of actions
type Rows struct {
	Actions []ActionTableRow
	Tracks  []TrackTableRow
	Artists []ArtistTableRow
}

// Shape flattens actions into table rows.
//
// Additions, removals and transfers each emit an action row. Additions and
// modifications refresh the track row and the artist rows of their track;
// when a track or artist id reappears the latest observation wins, so
// actions must be passed in commit order. Track and artist rows are
// returned sorted by id.
func Shape(actions []models.TrackRelatedAction) Rows {
	var rows Rows
	tracks := make(map[string]TrackTableRow)
	artists := make(map[string]ArtistTableRow)

	refresh := func(track models.Track) {
		tracks[track.ID] = TrackTableRow{
			ID:        track.ID,
			Name:      track.Name,
			ArtistIDs: track.ArtistIDs(),
		}
		for _, artist := range track.Artists {
			artists[artist.ID] = ArtistTableRow{ID: artist.ID, Name: artist.Name}
		}
	}

	for _, action := range actions {
		switch action.ActionType {
		case models.ActionAddition:
			rows.Actions = append(rows.Actions, actionRow(action))
			refresh(action.Track)
		case models.ActionRemoval, models.ActionTransfer:
			rows.Actions = append(rows.Actions, actionRow(action))
		case models.ActionModification:
			refresh(action.Track)
		}
	}

	rows.Tracks = make([]TrackTableRow, 0, len(tracks))
	for _, row := range tracks {
		rows.Tracks = append(rows.Tracks, row)
	}
	sort.Slice(rows.Tracks, func(i, j int) bool { return rows.Tracks[i].ID < rows.Tracks[j].ID })

	rows.Artists = make([]ArtistTableRow, 0, len(artists))
	for _, row := range artists {
		rows.Artists = append(rows.Artists, row)
	}
	sort.Slice(rows.Artists, func(i, j int) bool { return rows.Artists[i].ID < rows.Artists[j].ID })

	return rows
}

func actionRow(action models.TrackRelatedAction) ActionTableRow {
	return ActionTableRow{
		Timestamp:             action.Datetime.Format(time.RFC3339),
		ActionType:            action.ActionType.String(),
		SourcePlaylistID:      action.SourcePlaylistID,
		DestinationPlaylistID: action.DestinationPlaylistID,
		TrackID:               action.Track.ID,
	}
}

// AsAny converts a typed row slice into the untyped form accepted by
// row inserters
func AsAny[T any](rows []T) []any {
	out := make([]any, len(rows))
	for i := range rows {
		out[i] = rows[i]
	}
	return out
}
