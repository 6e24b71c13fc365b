package gtfs

import (
	"math"
)

// EarthRadiusKM is the spherical earth radius used for great-circle distances.
const EarthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two points in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}

// TripDistanceKM sums the haversine distances between consecutive stops of a trip.
// A pair where either stop has no coordinates contributes nothing.
func (g *GTFSIndex) TripDistanceKM(tripID string) float64 {
	stopSeq := g.TripStopSeq[tripID]
	total := 0.0
	for i := 1; i < len(stopSeq); i++ {
		c1, ok1 := g.stopCoord[stopSeq[i-1]]
		c2, ok2 := g.stopCoord[stopSeq[i]]
		if !ok1 || !ok2 {
			continue
		}
		total += HaversineKM(c1[1], c1[0], c2[1], c2[0])
	}
	return total
}
