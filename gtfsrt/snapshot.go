package gtfsrt

import (
	"fmt"
	"sort"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// DelaySnapshot holds the latest observed delay per trip, in seconds.
// It is built once and only read afterwards.
type DelaySnapshot struct {
	delays          map[string]int32
	headerTimestamp int64
}

// NewDelaySnapshot decodes a TripUpdates FeedMessage. Empty input yields an
// empty snapshot.
func NewDelaySnapshot(tripUpdates []byte) (*DelaySnapshot, error) {
	s := &DelaySnapshot{delays: map[string]int32{}}
	if len(tripUpdates) == 0 {
		return s, nil
	}

	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(tripUpdates, &fm); err != nil {
		return nil, fmt.Errorf("failed to parse trip updates: %w", err)
	}
	if fm.Header != nil && fm.Header.Timestamp != nil {
		s.headerTimestamp = int64(*fm.Header.Timestamp)
	}
	for _, e := range fm.Entity {
		tu := e.GetTripUpdate()
		tripID := tu.GetTrip().GetTripId()
		if tripID == "" {
			continue
		}
		if d, ok := tripUpdateDelay(tu); ok {
			s.delays[tripID] = d
		}
	}
	return s, nil
}

// tripUpdateDelay prefers the trip-level delay, then the last stop time
// update carrying an arrival or departure delay.
func tripUpdateDelay(tu *gtfsrtpb.TripUpdate) (int32, bool) {
	if tu.Delay != nil {
		return *tu.Delay, true
	}
	var (
		delay int32
		found bool
	)
	for _, stu := range tu.StopTimeUpdate {
		if stu.Departure != nil && stu.Departure.Delay != nil {
			delay, found = *stu.Departure.Delay, true
		} else if stu.Arrival != nil && stu.Arrival.Delay != nil {
			delay, found = *stu.Arrival.Delay, true
		}
	}
	return delay, found
}

// Delay returns the observed delay for tripID.
func (s *DelaySnapshot) Delay(tripID string) (int32, bool) {
	if s == nil {
		return 0, false
	}
	d, ok := s.delays[tripID]
	return d, ok
}

// ObservedDelaySeconds returns the delay for tripID, or 0 when none was observed.
func (s *DelaySnapshot) ObservedDelaySeconds(tripID string) int {
	d, _ := s.Delay(tripID)
	return int(d)
}

// Len returns the number of trips with an observed delay.
func (s *DelaySnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.delays)
}

// TripIDs returns the trips with an observed delay, sorted.
func (s *DelaySnapshot) TripIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.delays))
	for id := range s.delays {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Timestamp returns the feed header timestamp (POSIX seconds), or 0.
func (s *DelaySnapshot) Timestamp() int64 {
	if s == nil {
		return 0
	}
	return s.headerTimestamp
}
