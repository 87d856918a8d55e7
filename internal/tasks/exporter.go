package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/encoder"
	"github.com/desertthunder/audious/internal/fileutil"
	"github.com/desertthunder/audious/internal/metadata"
	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/playlists"
	"github.com/desertthunder/audious/internal/shared"
	"github.com/dustin/go-humanize"
)

// ExportSettings are the resolved paths and format of an export.
type ExportSettings struct {
	CollectionRoot  string
	PlaylistsDir    string
	ExportRoot      string
	ExportPlaylists string
	Format          models.Format
}

// Confirmer answers the yes/no question asked before any file is written.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(question string) (bool, error)

func (f ConfirmFunc) Confirm(question string) (bool, error) { return f(question) }

// RunRecorder persists export run summaries. Recording failures never fail an export.
type RunRecorder interface {
	Create(run *models.ExportRun) error
	Update(run *models.ExportRun) error
}

// SizeEstimate is the outcome of the SizeEstimated step.
type SizeEstimate struct {
	Songs     []string // Absolute song paths, sorted
	Gigabytes float64
	Errors    []error // One recoverable error per missing song or unreadable playlist
}

// SongTally counts the outcome of the song export step.
type SongTally struct {
	Total    int
	Exported int
	Skipped  int // Non-FLAC sources
	Failed   int
	Errors   []error
}

// PlaylistTally counts the outcome of the playlist export step.
type PlaylistTally struct {
	Total    int
	Exported int
	Failed   int
	Errors   []error
}

// ExportResult folds the tallies of every step of one run.
type ExportResult struct {
	Format     models.Format
	Phase      Phase // Done or Aborted
	Estimate   SizeEstimate
	Songs      SongTally
	Playlists  PlaylistTally
	StartedAt  time.Time
	FinishedAt time.Time
}

// Errors returns every recoverable error of the run, in step order.
func (r *ExportResult) Errors() []error {
	errs := make([]error, 0, len(r.Estimate.Errors)+len(r.Songs.Errors)+len(r.Playlists.Errors))
	errs = append(errs, r.Estimate.Errors...)
	errs = append(errs, r.Songs.Errors...)
	return append(errs, r.Playlists.Errors...)
}

// Run converts the result into a journal entry.
func (r *ExportResult) Run() *models.ExportRun {
	run := models.NewExportRun(r.Format)
	r.apply(run)
	return run
}

func (r *ExportResult) apply(run *models.ExportRun) {
	switch r.Phase {
	case Done:
		run.Status = models.RunCompleted
	case Aborted:
		run.Status = models.RunAborted
	default:
		run.Status = models.RunRunning
	}
	run.SizeGB = r.Estimate.Gigabytes
	run.Songs = len(r.Estimate.Songs)
	run.Exported = r.Songs.Exported
	run.Skipped = r.Songs.Skipped
	run.Failed = r.Songs.Failed
	run.Playlists = r.Playlists.Exported
	run.StartedAt = r.StartedAt
	run.FinishedAt = r.FinishedAt
}

// ConfirmQuestion is the question asked at the confirmation gate.
func ConfirmQuestion(gigabytes float64) string {
	return fmt.Sprintf("A maximum of %s additional GB will be created on the disk. Shall we continue? (y/n): ",
		humanize.FormatFloat("#,###.##", gigabytes))
}

// MirrorPath rebases song from collectionRoot onto exportRoot and creates the missing parent directories.
func MirrorPath(song, collectionRoot, exportRoot string) (string, error) {
	dest := fileutil.ReplaceRoot(song, collectionRoot, exportRoot)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}
	return dest, nil
}

// Exporter copies or transcodes the songs referenced by the playlists into the export root, then copies
// the playlists. Its steps must run in order; see [Phase].
type Exporter struct {
	settings   ExportSettings
	resolver   *playlists.Resolver
	transcoder encoder.Transcoder
	journal    RunRecorder
	run        *models.ExportRun // Journal entry of the current run, once confirmed
	logger     *log.Logger
	phase      Phase
	playlists  []string
}

// NewExporter creates an Exporter. transcoder is only used for MP3 exports.
func NewExporter(settings ExportSettings, resolver *playlists.Resolver, transcoder encoder.Transcoder, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Exporter{
		settings:   settings,
		resolver:   resolver,
		transcoder: transcoder,
		logger:     logger,
		phase:      Idle,
	}
}

// WithJournal records a summary of every run in j.
func (e *Exporter) WithJournal(j RunRecorder) *Exporter {
	e.journal = j
	return e
}

// Phase returns the current state of the run.
func (e *Exporter) Phase() Phase { return e.phase }

func (e *Exporter) advance(from, to Phase) error {
	if e.phase != from {
		return fmt.Errorf("%w: cannot move to %s from %s", shared.ErrInvalidInput, to, e.phase)
	}
	e.phase = to
	return nil
}

// Preflight checks the format, that the export root exists with no visible entries, and that at least
// one playlist exists. Failures are configuration errors.
func (e *Exporter) Preflight() error {
	if _, err := models.ParseFormat(string(e.settings.Format)); err != nil {
		return shared.ConfigError("%v", err)
	}

	info, err := os.Stat(e.settings.ExportRoot)
	if err != nil {
		return shared.ConfigError("the export directory '%s' could not be found", e.settings.ExportRoot)
	}
	if !info.IsDir() {
		return shared.ConfigError("the export path '%s' is not a directory", e.settings.ExportRoot)
	}
	visible, err := fileutil.HasVisibleEntries(e.settings.ExportRoot)
	if err != nil {
		return shared.ConfigError("the export directory '%s' could not be read: %v", e.settings.ExportRoot, err)
	}
	if visible {
		return shared.ConfigError("the export directory '%s' must be empty", e.settings.ExportRoot)
	}

	paths, err := e.resolver.Playlists()
	if err != nil {
		return err
	}
	e.playlists = paths
	return nil
}

// Estimate runs the preflight checks, aggregates the playlist songs and sums their sizes.
func (e *Exporter) Estimate() (*SizeEstimate, error) {
	if e.phase != Idle {
		return nil, fmt.Errorf("%w: cannot estimate from %s", shared.ErrInvalidInput, e.phase)
	}
	if err := e.Preflight(); err != nil {
		return nil, err
	}

	songs, err := e.resolver.AggregateSongs()
	if err != nil {
		return nil, err
	}
	sort.Strings(songs)

	gb, errs := EstimateSize(songs)
	estimate := &SizeEstimate{
		Songs:     songs,
		Gigabytes: gb,
		Errors:    append(append([]error{}, e.resolver.Errors()...), errs...),
	}
	e.logger.Debug("estimated export size", "songs", len(songs), "gb", gb, "missing", len(errs))
	return estimate, e.advance(Idle, SizeEstimated)
}

// Confirm asks c whether to continue. A no aborts the run before any file is written.
func (e *Exporter) Confirm(c Confirmer, estimate *SizeEstimate) (bool, error) {
	if e.phase != SizeEstimated {
		return false, fmt.Errorf("%w: cannot confirm from %s", shared.ErrInvalidInput, e.phase)
	}
	ok, err := c.Confirm(ConfirmQuestion(estimate.Gigabytes))
	if err != nil || !ok {
		e.phase = Aborted
		return false, err
	}
	return true, e.advance(SizeEstimated, Confirmed)
}

// Job builds the export job of one song, creating its destination directory.
func (e *Exporter) Job(song string) (models.ExportJob, error) {
	dest, err := MirrorPath(song, e.settings.CollectionRoot, e.settings.ExportRoot)
	if err != nil {
		return models.ExportJob{}, shared.RecoverableError(fmt.Sprintf("failed to create the directory of '%s'", song), err)
	}
	if e.settings.Format == models.FormatMP3 {
		dest = fileutil.ReplaceExt(dest, models.ExtMP3)
	}
	return models.ExportJob{Source: song, Destination: dest, Format: e.settings.Format}, nil
}

// ExportSong executes job. Sources that are not FLAC are skipped and report false with no error.
func (e *Exporter) ExportSong(ctx context.Context, job models.ExportJob) (bool, error) {
	if !isFLAC(job.Source) {
		return false, nil
	}

	switch job.Format {
	case models.FormatFLAC:
		if err := fileutil.CopyFile(job.Source, job.Destination); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, shared.RecoverableError(fmt.Sprintf("the following song was not found: '%s'", job.Source), err)
			}
			return false, shared.RecoverableError(fmt.Sprintf("the following song could not be copied: '%s'", job.Source), err)
		}
	case models.FormatMP3:
		if e.transcoder == nil {
			return false, fmt.Errorf("%w: no encoder configured", shared.ErrEncoderStart)
		}
		if err := e.transcoder.Encode(ctx, job.Source, job.Destination); err != nil {
			return false, err
		}
	default:
		return false, shared.ConfigError("unsupported export format %q", job.Format)
	}
	return true, nil
}

// ExportSongs exports songs one at a time. Per-song failures are counted and reported, never returned.
// Only a cancelled context stops the step early.
func (e *Exporter) ExportSongs(ctx context.Context, songs []string, report Reporter) (SongTally, error) {
	tally := SongTally{Total: len(songs)}
	if e.phase != Confirmed {
		return tally, fmt.Errorf("%w: cannot export songs from %s", shared.ErrInvalidInput, e.phase)
	}

	for i, song := range songs {
		step := i + 1
		if !isFLAC(song) {
			tally.Skipped++
			report.send(songSkippedUpdate(step, tally.Total, song))
			continue
		}

		job, err := e.Job(song)
		if err == nil {
			_, err = e.ExportSong(ctx, job)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return tally, ctxErr
			}
			e.logger.Debug("song export failed", "song", song, "error", err)
			tally.Failed++
			tally.Errors = append(tally.Errors, err)
			report.send(songFailedUpdate(step, tally.Total, err))
			continue
		}

		tally.Exported++
		tags, err := metadata.Read(job.Source)
		if err != nil {
			tags = nil
		}
		report.send(songExportedUpdate(step, tally.Total, metadata.Label(tags, job.Destination)))
	}
	return tally, e.advance(Confirmed, SongsExported)
}

// ExportPlaylists copies every playlist into the export playlists directory, keeping mode and modification time.
func (e *Exporter) ExportPlaylists(report Reporter) (PlaylistTally, error) {
	tally := PlaylistTally{Total: len(e.playlists)}
	if e.phase != SongsExported {
		return tally, fmt.Errorf("%w: cannot export playlists from %s", shared.ErrInvalidInput, e.phase)
	}

	if err := os.MkdirAll(e.settings.ExportPlaylists, 0755); err != nil {
		err = shared.RecoverableError(fmt.Sprintf("failed to create the playlists directory '%s'", e.settings.ExportPlaylists), err)
		tally.Failed = tally.Total
		tally.Errors = append(tally.Errors, err)
		report.send(playlistFailedUpdate(0, tally.Total, err))
		return tally, e.advance(SongsExported, PlaylistsExported)
	}

	for i, pl := range e.playlists {
		dest := filepath.Join(e.settings.ExportPlaylists, filepath.Base(pl))
		if _, err := os.Stat(dest); err == nil {
			e.logger.Warn("playlist overwrites an exported playlist with the same name", "playlist", pl, "dest", dest)
		}
		if err := fileutil.CopyFile(pl, dest); err != nil {
			err = shared.RecoverableError(fmt.Sprintf("the following playlist was not found: '%s'", pl), err)
			tally.Failed++
			tally.Errors = append(tally.Errors, err)
			report.send(playlistFailedUpdate(i+1, tally.Total, err))
			continue
		}
		tally.Exported++
		report.send(playlistExportedUpdate(i+1, tally.Total, pl))
	}
	return tally, e.advance(SongsExported, PlaylistsExported)
}

// Run executes a whole export: estimate, confirmation, songs, playlists.
//
// Configuration errors are returned before any file is written. An answer of no returns an Aborted
// result and no error.
func (e *Exporter) Run(ctx context.Context, c Confirmer, report Reporter) (*ExportResult, error) {
	result := &ExportResult{Format: e.settings.Format, StartedAt: time.Now().UTC()}

	estimate, err := e.Estimate()
	if err != nil {
		return nil, err
	}
	result.Estimate = *estimate
	report.send(ProgressUpdate{Phase: SizeEstimated, Total: len(estimate.Songs), Data: estimate})

	ok, err := e.Confirm(c, estimate)
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Phase = Aborted
		result.FinishedAt = time.Now().UTC()
		e.record(result)
		return result, nil
	}
	e.begin(result)

	if result.Songs, err = e.ExportSongs(ctx, estimate.Songs, report); err != nil {
		result.Phase = Aborted
		result.FinishedAt = time.Now().UTC()
		e.record(result)
		return result, err
	}
	if result.Playlists, err = e.ExportPlaylists(report); err != nil {
		return result, err
	}

	if err := e.advance(PlaylistsExported, Done); err != nil {
		return result, err
	}
	result.Phase = Done
	result.FinishedAt = time.Now().UTC()
	e.record(result)
	return result, nil
}

// begin records a running entry so that interrupted runs still show in the journal.
func (e *Exporter) begin(result *ExportResult) {
	if e.journal == nil {
		return
	}
	run := result.Run()
	if err := e.journal.Create(run); err != nil {
		e.logger.Warn("failed to record export run", "error", err)
		return
	}
	e.run = run
}

// record stores the final tallies, updating the running entry when there is one.
func (e *Exporter) record(result *ExportResult) {
	if e.journal == nil {
		return
	}
	if e.run == nil {
		if err := e.journal.Create(result.Run()); err != nil {
			e.logger.Warn("failed to record export run", "error", err)
		}
		return
	}
	result.apply(e.run)
	if err := e.journal.Update(e.run); err != nil {
		e.logger.Warn("failed to update export run", "id", e.run.ID(), "error", err)
	}
}

func isFLAC(path string) bool {
	return strings.HasSuffix(path, models.ExtFLAC)
}
