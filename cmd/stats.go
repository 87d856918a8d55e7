package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/audious/internal/tasks"
	"github.com/desertthunder/audious/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	locationCollection = "music collection"
	locationPlaylists  = "playlists"
)

// Stats reports the song, album and duration totals of the playlists and of each category.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.display.Step("Providing statistics of the music collection...")

	index, resolver, err := r.library(config)
	if err != nil {
		return err
	}

	r.display.Substep("Parsing playlists")
	r.display.Warning("Note that only songs found in the music collection will be used to calculate the total duration.")
	r.display.Warning("If a song is not found, please ensure that it is in your music collection. " +
		"If not, remove it from the playlist not to see again an error message about this song.")
	r.display.Warning("Depending on the quantity of songs, this operation might take a while...")

	report, err := tasks.NewStatsCollector(index, resolver, r.logger).Run(r.progress)
	if err != nil {
		return err
	}
	r.showStatsReport(report)

	r.display.Step("Providing statistics of the music collection: done!")
	return nil
}

func (r *Runner) showStatsReport(report *tasks.StatsReport) {
	d := r.display
	r.reportErrors(report.Errors)

	songs := report.Playlists.Songs
	d.Validation(ui.Pluralize(songs,
		fmt.Sprintf("%d songs were found in the playlists", songs),
		"1 song was found in the playlists",
		"No songs were found in the playlists"))
	d.Validation("Total duration of the playlists: " + tasks.FormatDuration(report.Playlists.Duration))

	for _, c := range report.Categories {
		d.Substep(fmt.Sprintf("Getting statistics for '%s'", ui.Title(c.Category.Name)))
		d.Validation(ui.Pluralize(c.Songs,
			fmt.Sprintf("%d songs were found in this category", c.Songs),
			"1 song was found in this category",
			"No songs were found in this category"))
		d.Validation("Total duration: " + tasks.FormatDuration(c.Duration))
	}

	d.Substep("Summary")
	r.showStatsSummary(locationCollection, report.Collection())
	d.Plain("")
	r.showStatsSummary(locationPlaylists, report.Playlists)
	d.Plain("")
	d.Plain(statsTable(report))
}

func (r *Runner) showStatsSummary(location string, s tasks.Stats) {
	d := r.display
	d.Validation(ui.Pluralize(s.Albums,
		fmt.Sprintf("%d albums are in the %s", s.Albums, location),
		fmt.Sprintf("1 album is in the %s", location),
		fmt.Sprintf("0 albums are in the %s", location)))
	d.Validation(ui.Pluralize(s.Songs,
		fmt.Sprintf("%d songs are in the %s", s.Songs, location),
		fmt.Sprintf("1 song is in the %s", location),
		fmt.Sprintf("0 songs are in the %s", location)))
	d.Validation(fmt.Sprintf("Total duration of the %s: %s", location, tasks.FormatDuration(s.Duration)))
}

// statsTable renders one row per category, then the collection and playlist totals.
func statsTable(report *tasks.StatsReport) string {
	row := func(name string, s tasks.Stats) []string {
		return []string{name, strconv.Itoa(s.Albums), strconv.Itoa(s.Songs), tasks.FormatDuration(s.Duration)}
	}

	rows := make([][]string, 0, len(report.Categories)+2)
	for _, c := range report.Categories {
		rows = append(rows, row(ui.Title(c.Category.Name), c.Stats))
	}
	rows = append(rows, row(ui.Title(locationCollection), report.Collection()))
	rows = append(rows, row(ui.Title(locationPlaylists), report.Playlists))

	return ui.RenderTable(
		[]string{"Location", "Albums", "Songs", "Duration"},
		rows,
		[]ui.Alignment{ui.AlignLeft, ui.AlignRight, ui.AlignRight, ui.AlignRight},
	)
}
