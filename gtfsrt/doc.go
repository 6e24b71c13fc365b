// Package gtfsrt reads GTFS-Realtime TripUpdates feeds into a per-trip
// observed delay snapshot.
//
// The snapshot is informational: it is reported next to a recommendation and
// never feeds back into risk scores. Library users may fetch the protobuf
// themselves and call NewDelaySnapshot; Client covers URLs and local files.
package gtfsrt
