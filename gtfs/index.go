package gtfs

import (
	"sort"
)

// GTFSIndex stores GTFS static data in memory for fast lookups.
// It is populated once by a loader and only read afterwards.
type GTFSIndex struct {
	agencyID        string
	routeShortNames map[string]string       // route_id -> short_name
	routeLongNames  map[string]string       // route_id -> long_name
	routeTypes      map[string]int          // route_id -> route_type (GTFS enum)
	tripToRoute     map[string]string       // trip_id -> route_id
	tripShapeID     map[string]string       // trip_id -> shape_id
	TripStopSeq     map[string][]string     // trip_id -> ordered stop_ids
	stopCoord       map[string][2]float64   // stop_id -> [lon,lat]
	ShapePoints     map[string][][2]float64 // shape_id -> ordered points [lon,lat]
}

// NewGTFSIndex creates a new empty GTFS index
func NewGTFSIndex(agencyID string) *GTFSIndex {
	return &GTFSIndex{
		agencyID:        agencyID,
		routeShortNames: map[string]string{},
		routeLongNames:  map[string]string{},
		routeTypes:      map[string]int{},
		tripToRoute:     map[string]string{},
		tripShapeID:     map[string]string{},
		TripStopSeq:     map[string][]string{},
		stopCoord:       map[string][2]float64{},
		ShapePoints:     map[string][][2]float64{},
	}
}

// GetAgencyID returns the explicit agency id, or the first agency_id in agency.txt.
func (g *GTFSIndex) GetAgencyID() string { return g.agencyID }

// TripStopSequence returns the stop_ids of a trip ordered by stop_sequence.
func (g *GTFSIndex) TripStopSequence(tripID string) []string { return g.TripStopSeq[tripID] }

// TripIDs returns every trip that has stop_times, sorted.
func (g *GTFSIndex) TripIDs() []string {
	keys := make([]string, 0, len(g.TripStopSeq))
	for k := range g.TripStopSeq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TripIDsForShape returns the trips using shapeID, sorted.
func (g *GTFSIndex) TripIDsForShape(shapeID string) []string {
	var out []string
	for trip, sh := range g.tripShapeID {
		if sh == shapeID {
			out = append(out, trip)
		}
	}
	sort.Strings(out)
	return out
}

// ShapeIDs returns every shape id, sorted.
func (g *GTFSIndex) ShapeIDs() []string {
	keys := make([]string, 0, len(g.ShapePoints))
	for k := range g.ShapePoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
