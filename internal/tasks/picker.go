package tasks

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/collection"
	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/playlists"
	"github.com/desertthunder/audious/internal/shared"
)

// Pick returns the albums of categoryAlbums that no playlist references, sorted case-insensitively.
func Pick(categoryAlbums, playlistAlbums []models.AlbumIdentity) []models.AlbumIdentity {
	listened := make(map[models.AlbumIdentity]struct{}, len(playlistAlbums))
	for _, a := range playlistAlbums {
		listened[a] = struct{}{}
	}

	picked := make([]models.AlbumIdentity, 0)
	seen := make(map[models.AlbumIdentity]struct{})
	for _, a := range categoryAlbums {
		if _, ok := listened[a]; ok {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		picked = append(picked, a)
	}

	sort.Slice(picked, func(i, j int) bool {
		li, lj := strings.ToLower(string(picked[i])), strings.ToLower(string(picked[j]))
		if li != lj {
			return li < lj
		}
		return picked[i] < picked[j]
	})
	return picked
}

// StripPrefixes removes every occurrence of each prefix from album, one prefix after another in
// the given order.
func StripPrefixes(album models.AlbumIdentity, prefixes []string) string {
	s := string(album)
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		s = strings.ReplaceAll(s, p, "")
	}
	return s
}

// DisplayAlbum formats a picked album for display: prefixes stripped and the first "/" shown as an arrow,
// e.g. "Rock/Artist/Album" with prefix "Rock/" becomes "Artist → Album".
func DisplayAlbum(album models.AlbumIdentity, prefixes []string) string {
	return strings.Replace(StripPrefixes(album, prefixes), "/", " → ", 1)
}

// CategoryPick is the reconciliation result of one category.
type CategoryPick struct {
	Category models.Category
	Albums   int                    // Albums found in the category
	Picked   []models.AlbumIdentity // Albums absent from every playlist, sorted
}

// Listened is the number of category albums already referenced by a playlist.
func (c CategoryPick) Listened() int { return c.Albums - len(c.Picked) }

// PickReport folds the per-category results of a [Picker] run.
type PickReport struct {
	Playlists      int // Playlist files found
	PlaylistAlbums int // Distinct albums referenced by the playlists
	Categories     []CategoryPick
	Errors         []error // Recoverable errors (unreadable playlists)
}

// TotalAlbums is the number of albums across every category.
func (r *PickReport) TotalAlbums() int {
	total := 0
	for _, c := range r.Categories {
		total += c.Albums
	}
	return total
}

// TotalPicked is the number of picked albums across every category.
func (r *PickReport) TotalPicked() int {
	total := 0
	for _, c := range r.Categories {
		total += len(c.Picked)
	}
	return total
}

// TotalListened is the number of collection albums found in the playlists.
func (r *PickReport) TotalListened() int { return r.TotalAlbums() - r.TotalPicked() }

// ListenedPercent is the share of collection albums found in the playlists.
func (r *PickReport) ListenedPercent() float64 {
	return percent(r.TotalListened(), r.TotalAlbums())
}

// PickedPercent is the share of collection albums not in the playlists.
func (r *PickReport) PickedPercent() float64 {
	if r.TotalAlbums() == 0 {
		return 0
	}
	return 100 - r.ListenedPercent()
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Picker reconciles the collection categories against the playlists.
type Picker struct {
	index    *collection.Index
	resolver *playlists.Resolver
	logger   *log.Logger
}

// NewPicker creates a Picker.
func NewPicker(index *collection.Index, resolver *playlists.Resolver, logger *log.Logger) *Picker {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Picker{index: index, resolver: resolver, logger: logger}
}

// Run parses the playlists, then scans the categories in declared order and picks the albums
// absent from the playlists.
//
// It fails with a configuration error when no playlist or album is found.
func (p *Picker) Run(report Reporter) (*PickReport, error) {
	paths, err := p.resolver.Playlists()
	if err != nil {
		return nil, err
	}
	report.send(parsePlaylistsUpdate(len(paths)))

	playlistAlbums, err := p.resolver.AggregateAlbums()
	if err != nil {
		return nil, err
	}

	result := &PickReport{
		Playlists:      len(paths),
		PlaylistAlbums: len(playlistAlbums),
		Errors:         p.resolver.Errors(),
	}

	categories := p.index.Categories()
	for i, category := range categories {
		report.send(scanCategoryUpdate(i+1, len(categories), category.Name))

		scan, err := p.index.Scan(category)
		if err != nil {
			return nil, shared.ConfigError("failed to scan category '%s': %v", category.Name, err)
		}
		picked := Pick(scan.Albums, playlistAlbums)
		p.logger.Debug("picked albums", "category", category.Name, "albums", len(scan.Albums), "picked", len(picked))

		result.Categories = append(result.Categories, CategoryPick{
			Category: category,
			Albums:   len(scan.Albums),
			Picked:   picked,
		})
	}

	if err := p.index.CheckTotal(); err != nil {
		return nil, err
	}
	return result, nil
}
