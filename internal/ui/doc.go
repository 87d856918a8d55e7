// Package ui renders user-facing output: styled messages, yes/no prompts, tables, progress bars, and an
// interactive browser for picked albums.
//
// [Display] writes step, substep, validation, warning and error lines with a lipgloss [Palette].
// Picked albums alternate between two colors. [Pluralize] selects a message by count and [Prompt]
// implements the confirmation gate of an export.
//
// The browser [Model] implements bubbletea/Elm's Init/Update/View pattern:
//  1. [AlbumListView] : Browse and filter picked albums
//  2. [SongListView] : Songs of the selected album, scanned on demand
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
