package gtfs

// Waypoint represents a geographical coordinate
type Waypoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// TripStopWaypoints returns the resolvable stop coordinates of a trip in
// stop_sequence order. Stops without coordinates are skipped.
func (g *GTFSIndex) TripStopWaypoints(tripID string) []Waypoint {
	seq := g.TripStopSeq[tripID]
	out := make([]Waypoint, 0, len(seq))
	for _, stopID := range seq {
		c, ok := g.stopCoord[stopID]
		if !ok {
			continue
		}
		out = append(out, Waypoint{Longitude: c[0], Latitude: c[1]})
	}
	return out
}
