package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/audious/internal/collection"
	"github.com/desertthunder/audious/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AlbumListView ViewState = iota
	SongListView
)

// Model is the picked-album browser.
type Model struct {
	view      ViewState
	width     int
	height    int
	albumList list.Model
	songList  list.Model
	selected  *albumItem
	logger    *log.Logger
	err       error
	help      help.Model
	keys      keyMap
}

// NewBrowser creates a browser over the picked albums of report. Album directories are resolved
// against root and labels are prefix-stripped.
func NewBrowser(root string, report *tasks.PickReport, prefixes []string, logger *log.Logger) *Model {
	var items []list.Item
	for _, c := range report.Categories {
		for _, album := range c.Picked {
			items = append(items, albumItem{
				album:    album,
				display:  tasks.DisplayAlbum(album, prefixes),
				category: Title(c.Category.Name),
				path:     filepath.Join(root, filepath.FromSlash(string(album))),
			})
		}
	}

	albums := list.New(items, list.NewDefaultDelegate(), 0, 0)
	albums.Title = fmt.Sprintf("Picked albums (%d)", len(items))

	return &Model{
		view:      AlbumListView,
		albumList: albums,
		songList:  list.New(nil, list.NewDefaultDelegate(), 0, 0),
		logger:    logger,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd { return nil }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.albumList.SetSize(msg.Width-4, msg.Height-4)
		m.songList.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AlbumListView:
			return m.handleAlbumListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		}

	case Msg:
		if msg.kind == MsgSongsListed {
			return m.songsListed(msg.data.(songsListed))
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.error.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	switch m.view {
	case AlbumListView:
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.filter, m.keys.quit})
		return fmt.Sprintf("%s\n%s", m.albumList.View(), helpView)
	case SongListView:
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		return fmt.Sprintf("%s\n%s", m.songList.View(), helpView)
	default:
		return ""
	}
}

func (m *Model) handleAlbumListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.albumList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.albumList.SelectedItem().(albumItem); ok {
			return m, m.listSongs(item)
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = AlbumListView
		m.selected = nil
		m.err = nil
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) songsListed(msg songsListed) (tea.Model, tea.Cmd) {
	m.view = SongListView
	m.selected = &msg.album
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}

	items := make([]list.Item, len(msg.songs))
	for i, s := range msg.songs {
		items[i] = songItem{path: s}
	}
	m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.songList.Title = fmt.Sprintf("%s (%s)", msg.album.display, msg.album.category)
	m.songList.SetSize(m.width-4, m.height-4)
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case AlbumListView:
		m.albumList, cmd = m.albumList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

// listSongs scans the album directory for songs.
func (m *Model) listSongs(album albumItem) tea.Cmd {
	return func() tea.Msg {
		songs, err := collection.Scan(album.path, m.logger)
		return songsListedMsg(album, songs, err)
	}
}
