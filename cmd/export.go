package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/audious/internal/encoder"
	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/playlists"
	"github.com/desertthunder/audious/internal/repositories"
	"github.com/desertthunder/audious/internal/shared"
	"github.com/desertthunder/audious/internal/tasks"
	"github.com/desertthunder/audious/internal/ui"
	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// Export copies (FLAC) or transcodes (MP3) every playlist song into the export root, then copies the
// playlists. Nothing is written before the size estimate is confirmed.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	loaded, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	config := *loaded
	if format := cmd.String("format"); format != "" {
		config.Export.Format = format
	}
	if cmd.Bool("lenient") {
		config.Export.LenientEncoder = true
	}
	if err := config.ValidateExport(); err != nil {
		return err
	}
	format, err := config.Format()
	if err != nil {
		return err
	}

	unlock, err := r.lockExport(&config)
	if err != nil {
		return err
	}
	defer unlock()

	r.display.Step("Exporting the playlists...")

	resolver := playlists.NewResolver(config.CollectionRoot(), config.PlaylistsDir(), r.logger)
	exporter := tasks.NewExporter(tasks.ExportSettings{
		CollectionRoot:  config.CollectionRoot(),
		PlaylistsDir:    config.PlaylistsDir(),
		ExportRoot:      config.ExportRoot(),
		ExportPlaylists: config.ExportPlaylistsDir(),
		Format:          format,
	}, resolver, r.transcoderFor(&config, format), r.logger)

	if journal, closeJournal := r.openJournal(&config); journal != nil {
		defer closeJournal()
		exporter.WithJournal(journal)
	}

	view := &exportView{display: r.display, format: format, interactive: ui.IsTerminal(r.output)}
	result, err := exporter.Run(ctx, view.confirmer(cmd.Bool("yes"), ui.NewPrompt(r.input, r.display)), view.update)
	view.finish()
	if err != nil {
		return err
	}
	if result.Phase == tasks.Aborted {
		return nil
	}

	view.summary(result)
	r.display.Step("Exporting the playlists: done!")
	return nil
}

// lockExport takes the advisory lock allowing a single export at a time. The lock lives next to the
// journal, or in the temporary directory when the journal is disabled.
func (r *Runner) lockExport(config *shared.Config) (func(), error) {
	path := filepath.Join(os.TempDir(), "audious-export.lock")
	if config.Journal.Path != "" {
		path = config.Journal.Path + ".lock"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock: %s)", shared.ErrExportLocked, path)
	}
	r.logger.Debug("export lock acquired", "path", path)

	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release export lock", "error", err)
		}
	}, nil
}

// openJournal opens the run journal. A journal that cannot be opened only disables recording.
func (r *Runner) openJournal(config *shared.Config) (*repositories.ExportRunRepository, func()) {
	if config.Journal.Path == "" {
		return nil, func() {}
	}
	db, err := shared.OpenJournal(config.Journal.Path)
	if err != nil {
		r.logger.Warn("journal unavailable, this run will not be recorded", "error", err)
		return nil, func() {}
	}
	return repositories.NewExportRunRepository(db), func() { db.Close() }
}

// transcoderFor returns the injected transcoder or an ffmpeg encoder. A missing encoder binary is
// reported but does not stop the export: each song then fails on its own.
func (r *Runner) transcoderFor(config *shared.Config, format models.Format) encoder.Transcoder {
	if r.transcoder != nil {
		return r.transcoder
	}
	ffmpeg := encoder.NewFFmpeg(config.Export.Encoder, config.Export.LenientEncoder, r.logger)
	if format == models.FormatMP3 {
		if err := ffmpeg.Check(); err != nil {
			r.display.Error(errorMessage(err))
		}
	}
	return ffmpeg
}

// exportView renders the progress of an export run. Song progress uses a bar on terminals and one line
// per song otherwise.
type exportView struct {
	display     *ui.Display
	format      models.Format
	interactive bool
	songs       int
	bar         *progressbar.ProgressBar
	playlists   bool
}

func (v *exportView) confirmer(assumeYes bool, prompt *ui.Prompt) tasks.Confirmer {
	return tasks.ConfirmFunc(func(question string) (bool, error) {
		if assumeYes {
			v.display.Warning(question + "yes")
		} else {
			ok, err := prompt.Confirm(question)
			if err != nil || !ok {
				return ok, err
			}
		}
		v.startSongs()
		return true, nil
	})
}

func (v *exportView) update(u tasks.ProgressUpdate) {
	switch u.Phase {
	case tasks.SizeEstimated:
		v.sizeEstimated(u)
	case tasks.Confirmed:
		v.song(u)
	case tasks.SongsExported:
		v.playlist(u)
	}
}

func (v *exportView) sizeEstimated(u tasks.ProgressUpdate) {
	d := v.display
	d.Substep("Calculating exportation size")
	d.Warning("Note that only songs found in the music collection will be used to calculate the total size.")
	d.Warning("If a song is not found, please ensure that it is in your music collection. " +
		"If not, remove it from the playlist not to see again an error message about this song.")

	if estimate, ok := u.Data.(*tasks.SizeEstimate); ok {
		v.songs = len(estimate.Songs)
		for _, err := range estimate.Errors {
			d.Error(errorMessage(err))
		}
	}
}

func (v *exportView) startSongs() {
	d := v.display
	d.Substep("Exporting songs")
	d.Warning("If a song is not found, it will not be exported. Please ensure that the song is in your music collection.")
	switch v.format {
	case models.FormatMP3:
		d.Validation("Exporting playlists in MP3")
	default:
		d.Validation("Exporting playlists in FLAC")
	}
	d.Warning("Depending on the quantity of songs, this operation might take a while...")
	d.Validation(fmt.Sprintf("Quantity of songs: %d", v.songs))

	if v.interactive && v.songs > 0 {
		v.bar = ui.NewProgressBar(v.songs, "Exporting songs")
	}
}

func (v *exportView) song(u tasks.ProgressUpdate) {
	if v.bar != nil {
		if u.Err != nil {
			v.bar.Clear()
			v.display.Error(errorMessage(u.Err))
		}
		v.bar.Add(1)
		return
	}

	switch {
	case u.Err != nil:
		v.display.Error(errorMessage(u.Err))
	case u.Skipped:
		v.display.Warning(u.Message)
	default:
		v.display.Validation(u.Message)
	}
}

func (v *exportView) playlist(u tasks.ProgressUpdate) {
	if !v.playlists {
		v.playlists = true
		v.finish()
		v.display.Substep("Exporting playlists")
		if u.Err == nil || u.Step > 0 {
			v.display.Validation("Created directory for playlists")
		}
	}

	if u.Err != nil {
		v.display.Error(errorMessage(u.Err) + "\nPlease ensure that this playlist is in your music collection and try again.")
		return
	}
	v.display.Validation(u.Message)
}

func (v *exportView) finish() {
	if v.bar != nil {
		v.bar.Finish()
		v.bar = nil
	}
}

func (v *exportView) summary(result *tasks.ExportResult) {
	d := v.display
	songs := result.Songs
	playlists := result.Playlists

	d.Substep("Summary")
	d.Validation(ui.Pluralize(songs.Exported,
		fmt.Sprintf("%d songs were exported", songs.Exported),
		"1 song was exported",
		"No songs were exported"))
	if songs.Skipped > 0 {
		d.Warning(ui.Pluralize(songs.Skipped,
			fmt.Sprintf("%d songs were skipped (not FLAC)", songs.Skipped),
			"1 song was skipped (not FLAC)", ""))
	}
	if songs.Failed > 0 {
		d.Error(ui.Pluralize(songs.Failed,
			fmt.Sprintf("%d songs could not be exported", songs.Failed),
			"1 song could not be exported", ""))
	}
	d.Validation(ui.Pluralize(playlists.Exported,
		fmt.Sprintf("%d playlists were exported", playlists.Exported),
		"1 playlist was exported",
		"No playlists were exported"))
	if playlists.Failed > 0 {
		d.Error(ui.Pluralize(playlists.Failed,
			fmt.Sprintf("%d playlists could not be exported", playlists.Failed),
			"1 playlist could not be exported", ""))
	}
}
