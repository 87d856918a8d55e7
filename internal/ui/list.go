package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/audious/internal/models"
)

var (
	_ list.Item = albumItem{}
	_ list.Item = songItem{}
)

// albumItem wraps a picked [models.AlbumIdentity] to implement [list.Item].
type albumItem struct {
	album    models.AlbumIdentity
	display  string // Prefix-stripped label
	category string
	path     string // Absolute album directory
}

func (i albumItem) FilterValue() string { return i.display }
func (i albumItem) Title() string       { return i.display }
func (i albumItem) Description() string { return i.category }

// songItem wraps a song path to implement [list.Item].
type songItem struct {
	path string
}

func (i songItem) FilterValue() string { return filepath.Base(i.path) }
func (i songItem) Title() string       { return filepath.Base(i.path) }
func (i songItem) Description() string { return strings.TrimPrefix(filepath.Ext(i.path), ".") }
