package tasks

import (
	"fmt"
	"path/filepath"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Err     error  // Recoverable error reported by this step, if any
	Skipped bool   // The step was skipped without error
	Data    any    // Optional phase-specific data
}

// Reporter receives progress updates. Calls are synchronous.
type Reporter func(ProgressUpdate)

// send delivers update when r is set.
func (r Reporter) send(update ProgressUpdate) {
	if r != nil {
		r(update)
	}
}

// Phase is a state of a run. Export runs move strictly forward:
//
//	Idle → SizeEstimated → Confirmed → SongsExported → PlaylistsExported → Done
//
// Aborted is reachable only from SizeEstimated.
type Phase int

const (
	Idle Phase = iota
	SizeEstimated
	Confirmed
	SongsExported
	PlaylistsExported
	Done
	Aborted
	ParsePlaylists
	ScanCategory
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case SizeEstimated:
		return "size_estimated"
	case Confirmed:
		return "confirmed"
	case SongsExported:
		return "songs_exported"
	case PlaylistsExported:
		return "playlists_exported"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	case ParsePlaylists:
		return "parse_playlists"
	case ScanCategory:
		return "scan_category"
	default:
		return ""
	}
}

func parsePlaylistsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParsePlaylists,
		Step:    total,
		Total:   total,
		Message: "Parsing playlists",
	}
}

func scanCategoryUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanCategory,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Scanning '%s'", name),
		Data:    name,
	}
}

func songExportedUpdate(step, total int, label string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Confirmed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Successfully exported (%d/%d): %s", step, total, label),
	}
}

func songSkippedUpdate(step, total int, song string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Confirmed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Skipped (%d/%d): '%s'", step, total, filepath.Base(song)),
		Skipped: true,
	}
}

func songFailedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Confirmed,
		Step:    step,
		Total:   total,
		Message: err.Error(),
		Err:     err,
	}
}

func playlistExportedUpdate(step, total int, playlist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SongsExported,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Successfully exported: '%s'", filepath.Base(playlist)),
	}
}

func playlistFailedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SongsExported,
		Step:    step,
		Total:   total,
		Message: err.Error(),
		Err:     err,
	}
}
