// Package metadata reads the embedded tags of FLAC and MP3 files for progress labels and durations.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/audious/internal/collection"
	"github.com/desertthunder/audious/internal/models"
	"github.com/desertthunder/audious/internal/shared"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
)

// Read returns the tags of the FLAC or MP3 file at path.
//
// Unsupported, unreadable or untagged files fail with [shared.ErrTagUnavailable].
func Read(path string) (*models.Tags, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case models.ExtFLAC:
		return readFLAC(path)
	case models.ExtMP3:
		return readMP3(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file %s", shared.ErrTagUnavailable, path)
	}
}

func readFLAC(path string) (*models.Tags, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrTagUnavailable, path, err)
	}
	defer stream.Close()

	tags := &models.Tags{}
	if info := stream.Info; info != nil && info.SampleRate > 0 {
		tags.Duration = float64(info.NSamples) / float64(info.SampleRate)
	}

	var albumArtist string
	for _, block := range stream.Blocks {
		comment, ok := block.Body.(*meta.VorbisComment)
		if !ok {
			continue
		}
		for _, kv := range comment.Tags {
			switch strings.ToUpper(kv[0]) {
			case "TITLE":
				tags.Title = kv[1]
			case "ARTIST":
				tags.Artist = kv[1]
			case "ALBUMARTIST", "ALBUM ARTIST":
				albumArtist = kv[1]
			case "ALBUM":
				tags.Album = kv[1]
			}
		}
	}
	if albumArtist != "" {
		tags.Artist = albumArtist
	}
	return tags, nil
}

func readMP3(path string) (*models.Tags, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrTagUnavailable, path, err)
	}
	defer tag.Close()

	if tag.Count() == 0 {
		return nil, fmt.Errorf("%w: %s has no id3v2 frames", shared.ErrTagUnavailable, path)
	}

	tags := &models.Tags{Title: tag.Title(), Artist: tag.Artist(), Album: tag.Album()}
	if band := tag.GetTextFrame(tag.CommonID("Band")).Text; band != "" {
		tags.Artist = band
	}
	if ms, err := strconv.ParseFloat(tag.GetTextFrame(tag.CommonID("Length")).Text, 64); err == nil {
		tags.Duration = ms / 1000
	}
	return tags, nil
}

// DurationOf returns the duration in seconds of a FLAC song.
//
// It is 0 for missing, hidden or non-FLAC files, and when the tags cannot be read.
func DurationOf(path string) float64 {
	name := filepath.Base(path)
	if collection.IsHidden(name) || !strings.HasSuffix(name, models.ExtFLAC) {
		return 0
	}
	if _, err := os.Stat(path); err != nil {
		return 0
	}
	tags, err := readFLAC(path)
	if err != nil {
		return 0
	}
	return tags.Duration
}

// Label describes an exported song: "title from artist in album" when tags are available,
// "'file' in 'dir/'" from dest otherwise.
func Label(tags *models.Tags, dest string) string {
	if tags == nil || tags.Title == "" {
		return fmt.Sprintf("'%s' in '%s/'", filepath.Base(dest), filepath.Base(filepath.Dir(dest)))
	}
	return fmt.Sprintf("'%s' from '%s' in '%s'", tags.Title, tags.Artist, tags.Album)
}
