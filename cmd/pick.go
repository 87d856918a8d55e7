package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/audious/internal/collection"
	"github.com/desertthunder/audious/internal/formatter"
	"github.com/desertthunder/audious/internal/playlists"
	"github.com/desertthunder/audious/internal/shared"
	"github.com/desertthunder/audious/internal/tasks"
	"github.com/desertthunder/audious/internal/ui"
	"github.com/urfave/cli/v3"
)

// library builds the collection index and the playlist resolver of config.
func (r *Runner) library(config *shared.Config) (*collection.Index, *playlists.Resolver, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	index, err := collection.NewIndex(config.CollectionRoot(), config.Categories(), r.logger)
	if err != nil {
		return nil, nil, err
	}
	resolver := playlists.NewResolver(config.CollectionRoot(), config.PlaylistsDir(), r.logger)
	return index, resolver, nil
}

// Pick lists, category by category, the albums that no playlist references.
func (r *Runner) Pick(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.display.Step("Picking albums to listen...")

	index, resolver, err := r.library(config)
	if err != nil {
		return err
	}

	report, err := tasks.NewPicker(index, resolver, r.logger).Run(r.progress)
	if err != nil {
		return err
	}

	prefixes := config.Prefixes()
	r.showPickReport(report, prefixes)

	if output := cmd.String("output"); output != "" {
		if err := formatter.WritePicks(report, prefixes, output); err != nil {
			return err
		}
		r.display.Validation(fmt.Sprintf("Picked albums written to '%s'", output))
	}

	r.display.Step("Picking albums to listen: done!")

	if cmd.Bool("browse") {
		return r.browse(config.CollectionRoot(), report, prefixes)
	}
	return nil
}

func (r *Runner) showPickReport(report *tasks.PickReport, prefixes []string) {
	d := r.display

	d.Substep("Parsing playlists")
	d.Validation(playlistsFound(report.Playlists))
	d.Validation(ui.Pluralize(report.PlaylistAlbums,
		fmt.Sprintf("%d albums were found in the playlists", report.PlaylistAlbums),
		"1 album was found in the playlists",
		"No albums were found in the playlists"))
	r.reportErrors(report.Errors)

	for _, c := range report.Categories {
		d.Substep(fmt.Sprintf("Picking albums to listen in '%s'", ui.Title(c.Category.Name)))
		d.Validation(ui.Pluralize(c.Albums,
			fmt.Sprintf("%d albums were found in this category", c.Albums),
			"1 album was found in this category",
			"No albums were found in this category"))

		listened := c.Listened()
		d.Validation(ui.Pluralize(listened,
			fmt.Sprintf("%d albums are already in the playlists", listened),
			"1 album is already in the playlists",
			"No albums were found in the playlists for this category"))

		picked := len(c.Picked)
		d.Warning(ui.Pluralize(picked,
			fmt.Sprintf("%d albums are not in the playlists", picked),
			"1 album is not in the playlists",
			"No albums to pick"))

		for i, album := range c.Picked {
			d.PickedAlbum(i, tasks.DisplayAlbum(album, prefixes))
		}
	}

	d.Substep("Summary")
	d.Validation(fmt.Sprintf("Albums in the music collection: %d", report.TotalAlbums()))
	d.Validation(fmt.Sprintf("Albums in the playlists: %d (%.2f%%)", report.TotalListened(), report.ListenedPercent()))
	d.Warning(fmt.Sprintf("Albums not in the playlists: %d (%.2f%%)", report.TotalPicked(), report.PickedPercent()))
}

func playlistsFound(n int) string {
	return ui.Pluralize(n, fmt.Sprintf("%d playlists were found", n), "1 playlist was found", "No playlists were found")
}
