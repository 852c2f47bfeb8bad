package playlistlog

import (
	"strings"

	"github.com/rohankatakam/playlistlog/internal/models"
)

type messageRule struct {
	prefix     string
	trackLevel bool
	actionType models.TrackRelatedActionType
}

// Rules are matched from the top and are not mutually exclusive: the
// playlist-level prefixes extend the track-level ones, so they come first.
var messageRules = []messageRule{
	{prefix: ":new: Create :file_folder: "},
	{prefix: ":negative_squared_cross_mark: Delete :file_folder: "},
	{prefix: ":pencil2: Modify :file_folder: "},
	{prefix: ":new: ", trackLevel: true, actionType: models.ActionAddition},
	{prefix: ":negative_squared_cross_mark: ", trackLevel: true, actionType: models.ActionRemoval},
	{prefix: ":truck: ", trackLevel: true, actionType: models.ActionTransfer},
	{prefix: ":pencil2: ", trackLevel: true, actionType: models.ActionModification},
}

// ClassifyMessage maps a commit message to the track action it announces.
// The second return value is false for playlist-level and unrelated commits.
func ClassifyMessage(message string) (models.TrackRelatedActionType, bool) {
	for _, rule := range messageRules {
		if strings.HasPrefix(message, rule.prefix) {
			return rule.actionType, rule.trackLevel
		}
	}
	return 0, false
}
