package risk

import (
	"sort"
)

// FeatureSource is the slice of a static feed the estimator reads.
// *gtfs.GTFSIndex satisfies it.
type FeatureSource interface {
	TripIDs() []string
	TripStopSequence(tripID string) []string
	TripDistanceKM(tripID string) float64
}

// ExtractFeatures computes TripFeatures for every trip in src, sorted by trip_id.
func ExtractFeatures(src FeatureSource) []TripFeatures {
	ids := src.TripIDs()
	out := make([]TripFeatures, 0, len(ids))
	for _, tripID := range ids {
		out = append(out, TripFeatures{
			TripID:          tripID,
			TotalDistanceKM: src.TripDistanceKM(tripID),
			StopCount:       len(src.TripStopSequence(tripID)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TripID < out[j].TripID })
	return out
}
