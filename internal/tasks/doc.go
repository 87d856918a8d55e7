// Package tasks reconciles a music collection against its playlists and exports playlist content.
//
// # Operations
//
//  1. [Picker.Run] : albums of the collection that no playlist references
//     - Parses every playlist and derives the listened albums
//     - Scans each category in declared order
//     - Returns a [PickReport] with per-category picks, sorted case-insensitively
//
//  2. [StatsCollector.Run] : song, album and duration totals
//     - Playlists first, then each category
//     - Missing songs contribute nothing and are reported
//
//  3. [Exporter.Run] : copy or transcode the playlist songs, then copy the playlists
//     - Preflight checks happen before anything is written
//     - A confirmation gate follows the size estimate
//     - FLAC exports are byte copies; MP3 exports run the encoder
//
// # Export states
//
// An export moves through [Phase] values in a fixed order:
//
//	Idle → SizeEstimated → Confirmed → SongsExported → PlaylistsExported → Done
//
// Answering no at the gate moves SizeEstimated to Aborted, before any file I/O. Each step returns its
// own tally ([SizeEstimate], [SongTally], [PlaylistTally]) which [Exporter.Run] folds into an [ExportResult].
//
// # Progress Reporting
//
// Operations accept an optional [Reporter]. Updates carry a phase, step counters, a message and, for
// per-item failures, the recoverable error. Calls are synchronous; nothing runs concurrently.
//
// # Errors
//
// Configuration problems wrap [shared.ErrConfiguration] and stop a run before it writes anything.
// Per-item problems wrap [shared.ErrRecoverableIO] and are counted, reported and skipped.
package tasks
