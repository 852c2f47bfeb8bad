package models

// Artist is a performer credited on a track
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track is a single entry of a playlist snapshot.
// Other properties of the snapshot JSON (such as addedAt) are ignored.
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
}

// Playlist is the content of one snapshot file in the log repository
type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`
}

// ArtistIDs returns the ids of the track's artists in credit order
func (t Track) ArtistIDs() []string {
	ids := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		ids = append(ids, artist.ID)
	}
	return ids
}

// TrackIDs returns the set of track ids in the playlist
func (p *Playlist) TrackIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.Tracks))
	for _, track := range p.Tracks {
		ids[track.ID] = struct{}{}
	}
	return ids
}

// TracksEqual reports whether two tracks carry the same name and the same
// artists, compared position by position. Track ids are not compared.
func TracksEqual(a, b Track) bool {
	if a.Name != b.Name {
		return false
	}
	if len(a.Artists) != len(b.Artists) {
		return false
	}
	for i := range a.Artists {
		if a.Artists[i].ID != b.Artists[i].ID || a.Artists[i].Name != b.Artists[i].Name {
			return false
		}
	}
	return true
}
