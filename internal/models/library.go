package models

import (
	"fmt"
	"strings"
)

// AlbumIdentity is a collection-root-relative, slash separated album directory such as "Rock/AlbumX".
//
// Two songs in the same directory share one identity; comparison is exact.
type AlbumIdentity string

func (a AlbumIdentity) String() string { return string(a) }

// Format is an export target format.
type Format string

const (
	FormatFLAC Format = "flac"
	FormatMP3  Format = "mp3"
)

// Supported audio file extensions.
const (
	ExtFLAC     = ".flac"
	ExtMP3      = ".mp3"
	ExtPlaylist = ".m3u"
)

// ParseFormat validates a format string. Only "flac" and "mp3" are accepted.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatFLAC, FormatMP3:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (only 'flac' and 'mp3' are supported)", s)
	}
}

// Extension returns the file suffix written for the format.
func (f Format) Extension() string {
	return "." + string(f)
}

// Category is a named top-level subtree of the collection root.
type Category struct {
	Name   string // Display name, e.g. "rock"
	Path   string // Absolute path of the category root
	Prefix string // Collection-relative prefix stripped before display, e.g. "Rock/"
}

// Tags holds the subset of embedded audio metadata used for reporting.
type Tags struct {
	Title    string
	Artist   string
	Album    string
	Duration float64 // Seconds
}

// AudioFile is a song discovered on disk.
type AudioFile struct {
	Path      string
	Extension string
	Size      int64
	Tags      *Tags
}

// Playlist is a playlist file and its ordered, non-blank song entries.
type Playlist struct {
	Path  string
	Songs []string // Collection-relative song paths
}

// ExportJob describes the export of one song. Jobs are executed immediately and never queued.
type ExportJob struct {
	Source      string
	Destination string
	Format      Format
}
