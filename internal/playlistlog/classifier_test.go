package playlistlog

import (
	"testing"

	"github.com/rohankatakam/playlistlog/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		message string
		want    models.TrackRelatedActionType
		ok      bool
	}{
		{":new: Create :file_folder: Chill", 0, false},
		{":negative_squared_cross_mark: Delete :file_folder: Chill", 0, false},
		{":pencil2: Modify :file_folder: Chill", 0, false},
		{":new: Love Story", models.ActionAddition, true},
		{":negative_squared_cross_mark: Old Song", models.ActionRemoval, true},
		{":truck: t9", models.ActionTransfer, true},
		{":pencil2: rename", models.ActionModification, true},
		{":new:Love Story", 0, false},
		{" :new: Love Story", 0, false},
		{"Initial commit", 0, false},
		{"", 0, false},
		// Track-level prefix followed by a playlist-looking suffix is still a track action.
		{":new: Create something", models.ActionAddition, true},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ClassifyMessage(tt.message)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
