// Package models defines the records of a playlist collection run.
//
// The package contains two categories of types:
//
// 1. Provider payloads: loosely decoded API objects where any field may be missing
//   - [PlaylistEntry] : One playlist slot, possibly without a track
//   - [TrackPayload] : Track object with optional fields and filtered artists
//   - [PlaylistSummary] : Playlist search hit
//
// 2. Dataset types: normalized output
//   - [TrackRecord] : One row with defaults substituted for missing fields
//   - [AudioFeatureSet] : Audio descriptors attached to recommendation rows
//   - [Dataset] : Ordered rows with a column union used by the CSV writer
package models
