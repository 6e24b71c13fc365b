/*
Package gtfs provides GTFS static data loading and indexing.

The loader accepts a zip (as bytes, an io.ReaderAt or a local path) or a
directory of .txt files and builds an in-memory index. It does NOT handle
HTTP downloads; callers fetch the archive themselves and pass the bytes.

# Basic Usage

	index, err := gtfs.LoadFromPath("./gtfs", "")
	if err != nil {
	    log.Fatal(err)
	}

	for _, tripID := range index.TripIDs() {
	    km := index.TripDistanceKM(tripID)
	    stops := len(index.TripStopSequence(tripID))
	    ...
	}

# Data Structure

The index provides fast lookups for:

- Routes (route_id → short/long name, route_type)
- Stops (stop_id → lat/lon)
- Trips (trip_id → route_id, shape_id)
- Stop sequences (trip_id → ordered list of stop_ids)
- Shapes (shape_id → ordered list of lon/lat points)

# Line Geometry

BuildLines turns shapes.txt into a GeoJSON FeatureCollection of LineStrings.
Feeds without shapes fall back to the ordered stop coordinates of each trip.

# Thread Safety

The index is never mutated after loading and is safe for concurrent reads.
*/
package gtfs
