// Package tasks orchestrates a playlist collection run with real-time progress reporting.
//
// # Core Operations
//
// [Collector] exposes the pipeline stages individually and composed:
//
//  1. [Collector.FetchAllEntries] : Pagination walker
//     - Requests the first page, then follows the "next" URL until it is empty
//     - Any page error fails the walk
//
//  2. [Collector.BuildRecord] : Track enricher
//     - Skips entries without a track or id
//     - Substitutes defaults for missing fields and joins artist names and ids
//     - Looks up lyrics when both artist and title are known
//
//  3. [Collector.Collect] : Paginating → Enriching → Writing → Done
//     - Pauses for [Throttle.Pause] after every [Throttle.Every]th entry
//     - Writes the dataset CSV through the formatter package
//
//  4. [Collector.Recommend] and [Collector.SearchPlaylists] : recommendation dataset and playlist lookup
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
//
// # Failure Handling
//
// Per-entry problems (missing lyrics, missing features, malformed payloads) are logged and absorbed.
// Only pagination and output errors fail a run.
package tasks
