// Package risk derives per-trip delay and accident probabilities from static
// schedule geometry and persists them as a flat table keyed by trip_id.
//
// Scores grow with the trip's path length (normalized by the longest trip in
// the batch) and its stop count, receive bounded uniform jitter, and are
// clipped to a per-field ceiling before rounding. Jitter makes runs
// non-reproducible unless the random source is seeded; see NewRand.
package risk
