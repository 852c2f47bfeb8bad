package playlistlog

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rohankatakam/playlistlog/internal/models"
)

// maxDiffBytes bounds the snapshot text rendered into a debug log entry
const maxDiffBytes = 64 * 1024

// SnapshotDiff renders a unified diff between the before and after content
// of a commit file, for logging commits that could not be reconstructed.
func SnapshotDiff(file models.CommitFile) string {
	if len(file.Before)+len(file.After) > maxDiffBytes {
		return "(snapshot diff omitted: content too large)"
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(file.Before),
		B:        difflib.SplitLines(file.After),
		FromFile: "a/" + file.Filename,
		ToFile:   "b/" + file.Filename,
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "(snapshot diff unavailable: " + err.Error() + ")"
	}
	if strings.TrimSpace(text) == "" {
		return "(snapshots are identical)"
	}
	return text
}
