package models

import (
	"errors"
	"time"
)

// RunStatus is the state of an export run.
type RunStatus string

const (
	RunRunning   RunStatus = "running" // Still running, or interrupted before it could be recorded
	RunCompleted RunStatus = "completed"
	RunAborted   RunStatus = "aborted"
)

// ExportRun is a journal entry summarizing one export.
//
// Only counters are recorded. Album and song sets are recomputed on every run.
type ExportRun struct {
	id         string
	sequence   int
	Format     Format
	Status     RunStatus
	SizeGB     float64
	Songs      int
	Exported   int
	Skipped    int
	Failed     int
	Playlists  int
	StartedAt  time.Time
	FinishedAt time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

// NewExportRun creates a run for the given format starting now.
func NewExportRun(format Format) *ExportRun {
	now := time.Now().UTC()
	return &ExportRun{
		Format:    format,
		Status:    RunAborted,
		StartedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreExportRun rebuilds a run read back from storage.
func RestoreExportRun(id string, createdAt, updatedAt time.Time) *ExportRun {
	return &ExportRun{id: id, createdAt: createdAt, updatedAt: updatedAt}
}

func (r *ExportRun) ID() string           { return r.id }
func (r *ExportRun) SetID(id string)      { r.id = id }
func (r *ExportRun) Sequence() int        { return r.sequence }
func (r *ExportRun) SetSequence(n int)    { r.sequence = n }
func (r *ExportRun) CreatedAt() time.Time { return r.createdAt }
func (r *ExportRun) UpdatedAt() time.Time { return r.updatedAt }

// Touch bumps the update timestamp.
func (r *ExportRun) Touch() { r.updatedAt = time.Now().UTC() }

// Duration reports how long the run took, or zero when it never finished.
func (r *ExportRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *ExportRun) Validate() error {
	if _, err := ParseFormat(string(r.Format)); err != nil {
		return err
	}
	switch r.Status {
	case RunRunning, RunCompleted, RunAborted:
	default:
		return errors.New("status must be running, completed or aborted")
	}
	if r.Exported+r.Skipped+r.Failed > r.Songs {
		return errors.New("exported, skipped and failed songs exceed the song total")
	}
	if r.StartedAt.IsZero() {
		return errors.New("start time is required")
	}
	return nil
}
