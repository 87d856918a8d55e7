// Package models defines domain entities and persistence interfaces for audious.
//
// The package contains two categories of types:
//
// 1. Library values: ephemeral structs discovered on every run and never persisted
//   - [AudioFile] : A song on disk with its extension, size and optional tags
//   - [AlbumIdentity] : A collection-root-relative album directory
//   - [Category] : A named top-level subtree of the collection
//   - [Playlist] : A playlist file with its ordered song entries
//   - [ExportJob] : One source/destination/format triple built during an export walk
//
// 2. Persistent entities: journal rows describing finished export runs
//   - [ExportRun] : Outcome of one export (counters, size, status)
//
// Persistent entities implement the Model interface. The Repository[T] interface defines the
// operations of the journal.
package models
