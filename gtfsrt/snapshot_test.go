package gtfsrt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/config"
)

func tripUpdateEntity(id, tripID string, tu *gtfsrtpb.TripUpdate) *gtfsrtpb.FeedEntity {
	tu.Trip = &gtfsrtpb.TripDescriptor{TripId: proto.String(tripID)}
	return &gtfsrtpb.FeedEntity{Id: proto.String(id), TripUpdate: tu}
}

func buildFeed(t *testing.T) []byte {
	t.Helper()

	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(1700000000),
		},
		Entity: []*gtfsrtpb.FeedEntity{
			tripUpdateEntity("1", "T1", &gtfsrtpb.TripUpdate{Delay: proto.Int32(120)}),
			tripUpdateEntity("2", "T2", &gtfsrtpb.TripUpdate{
				StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
					{StopId: proto.String("S1"), Arrival: &gtfsrtpb.TripUpdate_StopTimeEvent{Delay: proto.Int32(30)}},
					{StopId: proto.String("S2"), Departure: &gtfsrtpb.TripUpdate_StopTimeEvent{Delay: proto.Int32(-45)}},
					{StopId: proto.String("S3"), Arrival: &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(1700000600)}},
				},
			}),
			tripUpdateEntity("3", "T3", &gtfsrtpb.TripUpdate{
				StopTimeUpdate: []*gtfsrtpb.TripUpdate_StopTimeUpdate{
					{StopId: proto.String("S1"), Arrival: &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(1700000600)}},
				},
			}),
			{Id: proto.String("4"), Vehicle: &gtfsrtpb.VehiclePosition{}},
		},
	}
	b, err := proto.Marshal(fm)
	require.NoError(t, err)
	return b
}

func TestNewDelaySnapshot(t *testing.T) {
	s, err := NewDelaySnapshot(buildFeed(t))
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000), s.Timestamp())
	assert.Equal(t, []string{"T1", "T2"}, s.TripIDs())
	assert.Equal(t, 2, s.Len())

	tests := []struct {
		tripID string
		want   int
		ok     bool
	}{
		{tripID: "T1", want: 120, ok: true},
		{tripID: "T2", want: -45, ok: true},
		{tripID: "T3", want: 0, ok: false},
		{tripID: "UNKNOWN", want: 0, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.tripID, func(t *testing.T) {
			d, ok := s.Delay(tt.tripID)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, int(d))
			assert.Equal(t, tt.want, s.ObservedDelaySeconds(tt.tripID))
		})
	}
}

func TestNewDelaySnapshot_EmptyAndInvalid(t *testing.T) {
	s, err := NewDelaySnapshot(nil)
	require.NoError(t, err)
	assert.Zero(t, s.Len())

	_, err = NewDelaySnapshot([]byte{0x0a, 0xff})
	assert.Error(t, err)

	var nilSnap *DelaySnapshot
	assert.Zero(t, nilSnap.ObservedDelaySeconds("T1"))
	assert.Zero(t, nilSnap.Len())
}

func TestClient_Fetch(t *testing.T) {
	feed := buildFeed(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tu.pb" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(feed)
	}))
	defer srv.Close()

	c := NewClient(0)
	ctx := context.Background()

	b, err := c.Fetch(ctx, srv.URL+"/tu.pb")
	require.NoError(t, err)
	assert.Equal(t, feed, b)

	_, err = c.Fetch(ctx, srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP 404")

	b, err = c.Fetch(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, b)

	path := filepath.Join(t.TempDir(), "tu.pb")
	require.NoError(t, os.WriteFile(path, feed, 0o644))
	b, err = c.Fetch(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, feed, b)
}

func TestLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tu.pb")
	require.NoError(t, os.WriteFile(path, buildFeed(t), 0o644))

	s, err := LoadSnapshot(context.Background(), config.GTFSRTConfig{TripUpdatesURL: path, TimeoutMS: 1000})
	require.NoError(t, err)
	assert.Equal(t, 120, s.ObservedDelaySeconds("T1"))

	s, err = LoadSnapshot(context.Background(), config.GTFSRTConfig{})
	require.NoError(t, err)
	assert.Zero(t, s.Len())

	_, err = LoadSnapshot(context.Background(), config.GTFSRTConfig{TripUpdatesURL: filepath.Join(t.TempDir(), "nope.pb")})
	assert.Error(t, err)
}
