package tasks

import (
	"fmt"

	"github.com/desertthunder/trackset/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	Idle Phase = iota
	Paginating
	Enriching
	Writing
	Done
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Paginating:
		return "paginating"
	case Enriching:
		return "enriching"
	case Writing:
		return "writing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func paginatingUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Paginating,
		Message: fmt.Sprintf("Fetching playlist %s from Spotify...", playlistID),
	}
}

func pageUpdate(page, fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Paginating,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("Fetched page %d (%d/%d entries)", page, fetched, total),
	}
}

func enrichingUpdate(step, total int, r *models.TrackRecord) ProgressUpdate {
	if r == nil {
		return ProgressUpdate{
			Phase:   Enriching,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] skipped", step, total),
		}
	}
	return ProgressUpdate{
		Phase:   Enriching,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, r.ArtistNames, r.Name),
		Data:    r,
	}
}

func writingUpdate(path string, rows int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Writing,
		Step:    rows,
		Total:   rows,
		Message: fmt.Sprintf("Writing %d rows to %s...", rows, path),
	}
}

func doneUpdate(result *CollectResult) ProgressUpdate {
	rows, cols := result.Dataset.Shape()
	return ProgressUpdate{
		Phase:   Done,
		Step:    rows,
		Total:   result.Entries,
		Message: fmt.Sprintf("✓ Saved %d rows x %d columns to %s", rows, cols, result.OutputPath),
		Data:    result,
	}
}

func failedUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Message: fmt.Sprintf("✗ %v", err),
		Data:    err,
	}
}
