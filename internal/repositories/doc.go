// Package repositories implements SQLite persistence for the export journal.
//
// [ExportRunRepository] stores one row per export run: format, status, estimated size and the song and
// playlist counters. Album and song sets are never stored; every run recomputes them from disk.
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and
// timestamps. The [NextSequence] function atomically increments per-table sequence counters in dedicated
// sequence tables.
package repositories
