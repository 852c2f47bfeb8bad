package playlistlog

import "github.com/rohankatakam/playlistlog/internal/models"

// IdentifyExtraTrack returns the first track of the larger playlist whose id
// does not occur in the smaller one. p1 counts as the larger playlist only
// when it is strictly larger, so equal sizes compare p2 against p1.
func IdentifyExtraTrack(p1, p2 *models.Playlist) (models.Track, bool) {
	larger, smaller := p2, p1
	if len(p1.Tracks) > len(p2.Tracks) {
		larger, smaller = p1, p2
	}

	known := smaller.TrackIDs()
	for _, track := range larger.Tracks {
		if _, ok := known[track.ID]; !ok {
			return track, true
		}
	}
	return models.Track{}, false
}

// IdentifyModifiedTrack returns the first track of after whose id also
// occurs in before but whose name or artists changed.
func IdentifyModifiedTrack(before, after *models.Playlist) (models.Track, bool) {
	previous := make(map[string]models.Track, len(before.Tracks))
	for _, track := range before.Tracks {
		previous[track.ID] = track
	}

	for _, track := range after.Tracks {
		old, ok := previous[track.ID]
		if ok && !models.TracksEqual(old, track) {
			return track, true
		}
	}
	return models.Track{}, false
}
