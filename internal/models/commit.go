package models

import "time"

// DiffType is the kind of change a commit made to one file
type DiffType int

const (
	DiffTypeUnknown DiffType = iota
	DiffTypeAddition
	DiffTypeDeletion
	DiffTypeModification
)

// DiffTypeFromStatus maps a GitHub file status to a DiffType
func DiffTypeFromStatus(status string) DiffType {
	switch status {
	case "added":
		return DiffTypeAddition
	case "removed":
		return DiffTypeDeletion
	case "modified":
		return DiffTypeModification
	default:
		return DiffTypeUnknown
	}
}

func (d DiffType) String() string {
	switch d {
	case DiffTypeAddition:
		return "addition"
	case DiffTypeDeletion:
		return "deletion"
	case DiffTypeModification:
		return "modification"
	default:
		return "unknown"
	}
}

// Commit is a fully hydrated commit of the log repository
type Commit struct {
	SHA           string
	CommitterName string
	Message       string
	Datetime      time.Time // UTC
	Files         []CommitFile
}

// CommitFile is one changed file with its content at the parent (Before)
// and at the commit itself (After). Before is empty for additions and
// After is empty for deletions.
type CommitFile struct {
	Filename         string
	DiffType         DiffType
	AddedLineCount   int
	DeletedLineCount int
	Before           string
	After            string
}
