package playlistlog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rohankatakam/playlistlog/internal/models"
)

// The raw* types mirror the snapshot JSON with pointer fields so that a
// missing or null required property can be told apart from an empty one.

type rawArtist struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

type rawTrack struct {
	ID      *string      `json:"id"`
	Name    *string      `json:"name"`
	Artists *[]rawArtist `json:"artists"`
}

type rawPlaylist struct {
	ID     *string     `json:"id"`
	Name   *string     `json:"name"`
	Tracks *[]rawTrack `json:"tracks"`
}

// ParseSnapshot parses the content of a playlist snapshot file
func ParseSnapshot(content string) (*models.Playlist, error) {
	data := bytes.TrimSpace([]byte(content))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty snapshot")
	}
	if data[0] != '{' {
		return nil, fmt.Errorf("snapshot is not a JSON object")
	}

	var raw rawPlaylist
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if raw.ID == nil || raw.Name == nil || raw.Tracks == nil {
		return nil, fmt.Errorf("snapshot is missing id, name or tracks")
	}

	playlist := &models.Playlist{
		ID:     *raw.ID,
		Name:   *raw.Name,
		Tracks: make([]models.Track, 0, len(*raw.Tracks)),
	}
	for i, rt := range *raw.Tracks {
		if rt.ID == nil || rt.Name == nil || rt.Artists == nil {
			return nil, fmt.Errorf("track %d of playlist %s is missing id, name or artists", i, playlist.ID)
		}
		track := models.Track{
			ID:      *rt.ID,
			Name:    *rt.Name,
			Artists: make([]models.Artist, 0, len(*rt.Artists)),
		}
		for j, ra := range *rt.Artists {
			if ra.ID == nil || ra.Name == nil {
				return nil, fmt.Errorf("artist %d of track %s is missing id or name", j, track.ID)
			}
			track.Artists = append(track.Artists, models.Artist{ID: *ra.ID, Name: *ra.Name})
		}
		playlist.Tracks = append(playlist.Tracks, track)
	}

	return playlist, nil
}
