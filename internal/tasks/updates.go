package tasks

import (
	"fmt"

	"github.com/desertthunder/songdl/internal/models"
)

// ProgressUpdate represents a progress event during a run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Run phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data ([models.ResolvedSource] for Fetching, [models.Outcome] for Done)
}

// Run phase enumeration
type Phase int

const (
	CheckExisting Phase = iota
	Resolving
	Fetching
	Done
)

func (p Phase) String() string {
	switch p {
	case CheckExisting:
		return "check_existing"
	case Resolving:
		return "resolving"
	case Fetching:
		return "fetching"
	case Done:
		return "done"
	default:
		return ""
	}
}

func checkingUpdate(target string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckExisting,
		Message: fmt.Sprintf("Checking for %s...", target),
	}
}

func resolvingUpdate(song models.SongMetadata) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolving,
		Message: fmt.Sprintf("Searching for '%s'...", song),
	}
}

func fetchingUpdate(src *models.ResolvedSource) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetching,
		Message: fmt.Sprintf("Downloading '%s'...", src.DisplayTitle),
		Data:    *src,
	}
}

func doneUpdate(outcome models.Outcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Message: fmt.Sprintf("Finished: %s", outcome),
		Data:    outcome,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
