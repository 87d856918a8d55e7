// package formatter provides functions to write pick reports to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/audious/internal/shared"
	"github.com/desertthunder/audious/internal/tasks"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PickedAlbum is the serialized form of a picked album.
type PickedAlbum struct {
	Category string `json:"category"`
	Album    string `json:"album"`
	Display  string `json:"display"`
}

// PickSummary is the serialized form of a [tasks.PickReport].
type PickSummary struct {
	Albums          int           `json:"albums"`
	Listened        int           `json:"listened"`
	Picked          int           `json:"picked"`
	ListenedPercent float64       `json:"listened_percent"`
	PickedPercent   float64       `json:"picked_percent"`
	Playlists       int           `json:"playlists"`
	PickedAlbums    []PickedAlbum `json:"picked_albums"`
}

// Summarize flattens report into a [PickSummary], category by category.
func Summarize(report *tasks.PickReport, prefixes []string) PickSummary {
	summary := PickSummary{
		Albums:          report.TotalAlbums(),
		Listened:        report.TotalListened(),
		Picked:          report.TotalPicked(),
		ListenedPercent: report.ListenedPercent(),
		PickedPercent:   report.PickedPercent(),
		Playlists:       report.Playlists,
		PickedAlbums:    []PickedAlbum{},
	}
	for _, c := range report.Categories {
		for _, album := range c.Picked {
			summary.PickedAlbums = append(summary.PickedAlbums, PickedAlbum{
				Category: c.Category.Name,
				Album:    string(album),
				Display:  tasks.DisplayAlbum(album, prefixes),
			})
		}
	}
	return summary
}

// PicksToCSV converts a pick report to CSV with columns: Category, Album, Display
func PicksToCSV(report *tasks.PickReport, prefixes []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Category", "Album", "Display"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, a := range Summarize(report, prefixes).PickedAlbums {
		if err := writer.Write([]string{a.Category, a.Album, a.Display}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PicksToMarkdown converts a pick report to Markdown, one section per category.
func PicksToMarkdown(report *tasks.PickReport, prefixes []string) ([]byte, error) {
	var buf bytes.Buffer
	title := cases.Title(language.English)

	buf.WriteString("# Albums to listen\n\n")
	buf.WriteString(fmt.Sprintf("**Albums in the music collection**: %d\n", report.TotalAlbums()))
	buf.WriteString(fmt.Sprintf("**Albums in the playlists**: %d (%.2f%%)\n", report.TotalListened(), report.ListenedPercent()))
	buf.WriteString(fmt.Sprintf("**Albums not in the playlists**: %d (%.2f%%)\n", report.TotalPicked(), report.PickedPercent()))

	for _, c := range report.Categories {
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", title.String(c.Category.Name)))
		if len(c.Picked) == 0 {
			buf.WriteString("No albums to pick\n")
			continue
		}
		for i, album := range c.Picked {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, tasks.DisplayAlbum(album, prefixes)))
		}
	}

	return buf.Bytes(), nil
}

// PicksToText converts a pick report to plain text, one album per line.
func PicksToText(report *tasks.PickReport, prefixes []string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Albums to listen: %d\n", report.TotalPicked()))
	for _, a := range Summarize(report, prefixes).PickedAlbums {
		buf.WriteString(fmt.Sprintf("[%s] %s\n", a.Category, a.Display))
	}

	return buf.Bytes(), nil
}

// PicksToJSON converts a pick report to an indented [PickSummary] document.
func PicksToJSON(report *tasks.PickReport, prefixes []string) ([]byte, error) {
	data, err := json.MarshalIndent(Summarize(report, prefixes), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WritePicks writes a pick report to path, choosing the format from its extension:
// .csv, .md, .json, and .txt.
func WritePicks(report *tasks.PickReport, prefixes []string, path string) error {
	var render func(*tasks.PickReport, []string) ([]byte, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		render = PicksToCSV
	case ".md":
		render = PicksToMarkdown
	case ".json":
		render = PicksToJSON
	case ".txt":
		render = PicksToText
	default:
		return fmt.Errorf("%w: unsupported output format %q (expected .csv, .md, .json or .txt)", shared.ErrInvalidInput, filepath.Ext(path))
	}

	data, err := render(report, prefixes)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

