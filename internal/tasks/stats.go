package tasks

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/collection"
	"github.com/desertthunder/audious/internal/metadata"
	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/playlists"
	"github.com/desertthunder/audious/internal/shared"
)

// Stats are the song, album and duration totals of a location.
type Stats struct {
	Albums   int
	Songs    int
	Duration float64 // Seconds
}

// Add returns the sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{Albums: s.Albums + o.Albums, Songs: s.Songs + o.Songs, Duration: s.Duration + o.Duration}
}

// CategoryStats are the totals of one category.
type CategoryStats struct {
	Category models.Category
	Stats
}

// StatsReport holds the playlist totals and the per-category totals, in declared order.
type StatsReport struct {
	Playlists  Stats
	Categories []CategoryStats
	Errors     []error // One recoverable error per missing song or unreadable playlist
}

// Collection folds the category totals.
func (r *StatsReport) Collection() Stats {
	var total Stats
	for _, c := range r.Categories {
		total = total.Add(c.Stats)
	}
	return total
}

// StatsCollector computes statistics of the playlists and of every category.
type StatsCollector struct {
	index      *collection.Index
	resolver   *playlists.Resolver
	durationOf func(path string) float64
	logger     *log.Logger
}

// NewStatsCollector creates a StatsCollector reading FLAC durations with [metadata.DurationOf].
func NewStatsCollector(index *collection.Index, resolver *playlists.Resolver, logger *log.Logger) *StatsCollector {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &StatsCollector{index: index, resolver: resolver, durationOf: metadata.DurationOf, logger: logger}
}

// Run computes the playlist totals, then the totals of each category.
func (s *StatsCollector) Run(report Reporter) (*StatsReport, error) {
	paths, err := s.resolver.Playlists()
	if err != nil {
		return nil, err
	}
	report.send(parsePlaylistsUpdate(len(paths)))

	albums, err := s.resolver.AggregateAlbums()
	if err != nil {
		return nil, err
	}
	songs, err := s.resolver.AggregateSongs()
	if err != nil {
		return nil, err
	}

	result := &StatsReport{Errors: s.resolver.Errors()}
	duration, errs := s.sumDurations(songs)
	result.Playlists = Stats{Albums: len(albums), Songs: len(songs), Duration: duration}
	result.Errors = append(result.Errors, errs...)

	categories := s.index.Categories()
	for i, category := range categories {
		report.send(scanCategoryUpdate(i+1, len(categories), category.Name))

		scan, err := s.index.Scan(category)
		if err != nil {
			return nil, shared.ConfigError("failed to scan category '%s': %v", category.Name, err)
		}
		duration, errs := s.sumDurations(scan.Songs)
		result.Errors = append(result.Errors, errs...)
		result.Categories = append(result.Categories, CategoryStats{
			Category: category,
			Stats:    Stats{Albums: len(scan.Albums), Songs: len(scan.Songs), Duration: duration},
		})
	}
	return result, nil
}

func (s *StatsCollector) sumDurations(songs []string) (float64, []error) {
	var (
		total float64
		errs  []error
	)
	for _, song := range songs {
		if _, err := os.Stat(song); err != nil {
			errs = append(errs, shared.RecoverableError(fmt.Sprintf("the following song was not found: '%s'", song), err))
			continue
		}
		total += s.durationOf(song)
	}
	return total, errs
}

// FormatDuration renders seconds, rounded, as "H:MM:SS", prefixed with "N day(s), " past 24 hours.
func FormatDuration(seconds float64) string {
	total := int64(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	days := total / 86400
	rest := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, rest%3600/60, rest%60)

	switch {
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, clock)
	case days == 1:
		return "1 day, " + clock
	default:
		return clock
	}
}
