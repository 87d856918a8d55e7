// Package collection walks the category trees of a music collection and derives album identities.
package collection

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/models"
	"golang.org/x/time/rate"
)

// IsAudio reports whether name carries a supported audio extension.
func IsAudio(name string) bool {
	return strings.HasSuffix(name, models.ExtFLAC) || strings.HasSuffix(name, models.ExtMP3)
}

// IsHidden reports whether name is an OS hidden file such as ".DS_Store" or "._song.flac".
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Scan walks root recursively and returns the audio files it holds in lexical walk order.
//
// Hidden files are skipped. Finding nothing is not an error.
func Scan(root string, logger *log.Logger) ([]string, error) {
	progress := rate.Sometimes{Interval: time.Second}
	var songs []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			if logger != nil {
				logger.Warn("skipping unreadable entry", "path", p, "error", err)
			}
			return nil
		}
		if d.IsDir() || IsHidden(d.Name()) || !IsAudio(d.Name()) {
			return nil
		}

		songs = append(songs, p)
		if logger != nil {
			progress.Do(func() { logger.Debug("scanning", "root", root, "songs", len(songs)) })
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return songs, nil
}

// DeriveAlbums returns the distinct album identities of songs, in first-seen order.
//
// An identity is the song's parent directory relative to collectionRoot, slash separated.
func DeriveAlbums(songs []string, collectionRoot string) []models.AlbumIdentity {
	seen := make(map[models.AlbumIdentity]struct{}, len(songs))
	albums := make([]models.AlbumIdentity, 0)

	for _, song := range songs {
		if IsHidden(filepath.Base(song)) {
			continue
		}
		album := AlbumOf(song, collectionRoot)
		if _, ok := seen[album]; ok {
			continue
		}
		seen[album] = struct{}{}
		albums = append(albums, album)
	}
	return albums
}

// AlbumOf derives the album identity of a single song path.
func AlbumOf(song, collectionRoot string) models.AlbumIdentity {
	dir := filepath.Dir(song)
	rel, err := filepath.Rel(filepath.Clean(collectionRoot), dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = strings.TrimPrefix(dir, collectionRoot)
	}
	return models.AlbumIdentity(path.Clean(strings.TrimPrefix(filepath.ToSlash(rel), "/")))
}
