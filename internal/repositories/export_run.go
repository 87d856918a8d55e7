package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/shared"
)

// ErrRunNotFound is returned when no export run has the requested ID.
var ErrRunNotFound = errors.New("export run not found")

const exportRunColumns = `id, sequence, format, status, size_gb, songs, exported, skipped, failed, playlists,
	started_at, finished_at, created_at, updated_at`

// ExportRunRepository implements models.Repository[*models.ExportRun] for the export journal.
type ExportRunRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.ExportRun] = (*ExportRunRepository)(nil)

// NewExportRunRepository creates a new ExportRunRepository with the given database connection
func NewExportRunRepository(db *sql.DB) *ExportRunRepository {
	return &ExportRunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *ExportRunRepository) Create(run *models.ExportRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "export_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	query := `INSERT INTO export_runs (` + exportRunColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		id,
		sequence,
		string(run.Format),
		string(run.Status),
		run.SizeGB,
		run.Songs,
		run.Exported,
		run.Skipped,
		run.Failed,
		run.Playlists,
		run.StartedAt,
		nullTime(run.FinishedAt),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert export run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID
func (r *ExportRunRepository) Get(id string) (*models.ExportRun, error) {
	query := `SELECT ` + exportRunColumns + ` FROM export_runs WHERE id = ?`
	return scanExportRun(r.db.QueryRow(query, id))
}

// Update rewrites the counters, status and finish time of an existing run
func (r *ExportRunRepository) Update(run *models.ExportRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	run.Touch()

	query := `
		UPDATE export_runs
		SET status = ?, size_gb = ?, songs = ?, exported = ?, skipped = ?, failed = ?, playlists = ?,
			finished_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		string(run.Status),
		run.SizeGB,
		run.Songs,
		run.Exported,
		run.Skipped,
		run.Failed,
		run.Playlists,
		nullTime(run.FinishedAt),
		run.UpdatedAt(),
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update export run: %w", err)
	}
	return expectOneRow(result, run.ID())
}

// Delete removes a run by ID
func (r *ExportRunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM export_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export run: %w", err)
	}
	return expectOneRow(result, id)
}

// List retrieves the most recent runs, newest first. A limit of zero or less returns every run.
func (r *ExportRunRepository) List(limit int) ([]*models.ExportRun, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + exportRunColumns + ` FROM export_runs ORDER BY sequence DESC LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query export runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ExportRun
	for rows.Next() {
		run, err := scanExportRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows]
type scanner interface {
	Scan(dest ...any) error
}

func scanExportRun(row scanner) (*models.ExportRun, error) {
	var (
		id         string
		sequence   int
		format     string
		status     string
		sizeGB     float64
		songs      int
		exported   int
		skipped    int
		failed     int
		playlists  int
		startedAt  time.Time
		finishedAt sql.NullTime
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(&id, &sequence, &format, &status, &sizeGB, &songs, &exported, &skipped, &failed, &playlists,
		&startedAt, &finishedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export run: %w", err)
	}

	run := models.RestoreExportRun(id, createdAt, updatedAt)
	run.SetSequence(sequence)
	run.Format = models.Format(format)
	run.Status = models.RunStatus(status)
	run.SizeGB = sizeGB
	run.Songs = songs
	run.Exported = exported
	run.Skipped = skipped
	run.Failed = failed
	run.Playlists = playlists
	run.StartedAt = startedAt
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return run, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func expectOneRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
