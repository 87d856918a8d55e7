// Package playlists discovers .m3u playlists and aggregates their songs and albums.
//
// Playlist lines are collection-relative song paths such as "Rock/AlbumX/01 Song.flac".
// Aggregations use set semantics: duplicates collapse and the enumeration order is unspecified.
package playlists

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/shared"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ListPlaylists returns every .m3u file below root, sorted.
//
// Finding none is a configuration error.
func ListPlaylists(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), models.ExtPlaylist) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, shared.ConfigError("failed to list playlists in %s: %v", root, err)
	}
	if len(paths) == 0 {
		return nil, shared.ConfigError("at least one playlist is required, add a playlist to %s and try again", root)
	}
	sort.Strings(paths)
	return paths, nil
}

// ParseSongs reads the song entries of one playlist.
//
// Lines are trimmed and blank lines dropped. Invalid UTF-8 is replaced with U+FFFD and a leading
// byte order mark is ignored.
func ParseSongs(playlistPath string) ([]string, error) {
	f, err := os.Open(playlistPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(f, decoder))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var songs []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		songs = append(songs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist %s: %w", playlistPath, err)
	}
	return songs, nil
}

// AlbumOfEntry returns the album identity encoded by a playlist line: its directory component.
func AlbumOfEntry(line string) models.AlbumIdentity {
	return models.AlbumIdentity(path.Dir(filepath.ToSlash(line)))
}

// Resolver aggregates songs and albums across every playlist of a collection.
type Resolver struct {
	collectionRoot string
	playlistsRoot  string
	logger         *log.Logger
	errs           []error
}

// NewResolver creates a Resolver for the playlists stored in playlistsRoot.
func NewResolver(collectionRoot, playlistsRoot string, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{collectionRoot: collectionRoot, playlistsRoot: playlistsRoot, logger: logger}
}

// Playlists lists the playlist files. See [ListPlaylists].
func (r *Resolver) Playlists() ([]string, error) {
	return ListPlaylists(r.playlistsRoot)
}

// Load parses every playlist. Unreadable playlists are skipped and recorded in [Resolver.Errors].
func (r *Resolver) Load() ([]models.Playlist, error) {
	paths, err := r.Playlists()
	if err != nil {
		return nil, err
	}

	r.errs = nil
	loaded := make([]models.Playlist, 0, len(paths))
	for _, p := range paths {
		songs, err := ParseSongs(p)
		if err != nil {
			r.logger.Warn("skipping playlist", "path", p, "error", err)
			r.errs = append(r.errs, shared.RecoverableError(fmt.Sprintf("the following playlist could not be read: '%s'", p), err))
			continue
		}
		loaded = append(loaded, models.Playlist{Path: p, Songs: songs})
	}
	return loaded, nil
}

// Errors returns the recoverable errors of the last [Resolver.Load].
func (r *Resolver) Errors() []error { return r.errs }

// AggregateSongs returns the absolute paths of every song referenced by any playlist, deduplicated.
func (r *Resolver) AggregateSongs() ([]string, error) {
	loaded, err := r.Load()
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, pl := range loaded {
		for _, line := range pl.Songs {
			set[filepath.Join(r.collectionRoot, filepath.FromSlash(line))] = struct{}{}
		}
	}

	songs := make([]string, 0, len(set))
	for song := range set {
		songs = append(songs, song)
	}
	return songs, nil
}

// AggregateAlbums returns the album identities referenced by any playlist, deduplicated.
//
// An empty result is a configuration error.
func (r *Resolver) AggregateAlbums() ([]models.AlbumIdentity, error) {
	loaded, err := r.Load()
	if err != nil {
		return nil, err
	}

	set := make(map[models.AlbumIdentity]struct{})
	for _, pl := range loaded {
		for _, line := range pl.Songs {
			set[AlbumOfEntry(line)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, shared.ConfigError("no albums were found in the playlists")
	}

	albums := make([]models.AlbumIdentity, 0, len(set))
	for album := range set {
		albums = append(albums, album)
	}
	return albums, nil
}
