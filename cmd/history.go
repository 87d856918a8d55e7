package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/repositories"
	"github.com/desertthunder/audious/internal/shared"
	"github.com/desertthunder/audious/internal/ui"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// runRecord is the JSON form of a journal entry.
type runRecord struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"sequence"`
	Format     string    `json:"format"`
	Status     string    `json:"status"`
	SizeGB     float64   `json:"size_gb"`
	Songs      int       `json:"songs"`
	Exported   int       `json:"exported"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Playlists  int       `json:"playlists"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func newRunRecord(run *models.ExportRun) runRecord {
	return runRecord{
		ID:         run.ID(),
		Sequence:   run.Sequence(),
		Format:     string(run.Format),
		Status:     string(run.Status),
		SizeGB:     run.SizeGB,
		Songs:      run.Songs,
		Exported:   run.Exported,
		Skipped:    run.Skipped,
		Failed:     run.Failed,
		Playlists:  run.Playlists,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

// History lists the most recent export runs recorded in the journal, newest first, or deletes one
// run with --delete.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if config.Journal.Path == "" {
		return shared.ConfigError("the export journal is disabled, set [journal] path in the preferences")
	}

	db, err := shared.OpenJournal(config.Journal.Path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer db.Close()

	repo := repositories.NewExportRunRepository(db)
	if id := cmd.String("delete"); id != "" {
		return r.deleteRun(repo, id)
	}

	runs, err := repo.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]runRecord, 0, len(runs))
		for _, run := range runs {
			records = append(records, newRunRecord(run))
		}
		return r.writeJSON(records, true)
	}

	if len(runs) == 0 {
		r.display.Warning("No export runs were recorded")
		return nil
	}

	return r.writePlain("%s\n", historyTable(runs, time.Now()))
}

func (r *Runner) deleteRun(repo *repositories.ExportRunRepository, id string) error {
	run, err := repo.Get(id)
	if errors.Is(err, repositories.ErrRunNotFound) {
		return fmt.Errorf("%w: no export run with ID %s", shared.ErrInvalidInput, id)
	}
	if err != nil {
		return err
	}
	if err := repo.Delete(id); err != nil {
		return err
	}
	r.display.Validation(fmt.Sprintf("Deleted export run #%d (%s, %s)", run.Sequence(), run.Format, run.Status))
	return nil
}

func historyTable(runs []*models.ExportRun, now time.Time) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			strconv.Itoa(run.Sequence()),
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			string(run.Format),
			string(run.Status),
			humanize.FormatFloat("#,###.##", run.SizeGB),
			fmt.Sprintf("%d/%d", run.Exported, run.Songs),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
			strconv.Itoa(run.Playlists),
			run.Duration().Round(time.Second).String(),
		})
	}

	return ui.RenderTable(
		[]string{"#", "Started", "Format", "Status", "GB", "Songs", "Skipped", "Failed", "Playlists", "Took"},
		rows,
		[]ui.Alignment{
			ui.AlignRight, ui.AlignLeft, ui.AlignLeft, ui.AlignLeft, ui.AlignRight,
			ui.AlignRight, ui.AlignRight, ui.AlignRight, ui.AlignRight, ui.AlignRight,
		},
	)
}
