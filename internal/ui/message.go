package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the browser.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsListed MsgKind = iota
)

type songsListed struct {
	album albumItem
	songs []string
	err   error
}

// songsListedMsg is the constructor for [MsgSongsListed]
func songsListedMsg(album albumItem, songs []string, err error) Msg {
	return Msg{kind: MsgSongsListed, data: songsListed{album: album, songs: songs, err: err}}
}
