package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/config"
)

// Client fetches GTFS-RT protobuf data from a URL or a local file.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client whose HTTP requests time out after timeout.
// A zero timeout means no limit.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the raw bytes at location. Returns nil if location is empty
// (allows optional feeds).
func (c *Client) Fetch(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, nil
	}
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		b, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", location, err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, location)
	}
	return io.ReadAll(resp.Body)
}

// LoadSnapshot fetches and decodes the configured TripUpdates feed. An
// unconfigured feed yields an empty snapshot.
func LoadSnapshot(ctx context.Context, cfg config.GTFSRTConfig) (*DelaySnapshot, error) {
	c := NewClient(time.Duration(cfg.TimeoutMS) * time.Millisecond)
	b, err := c.Fetch(ctx, cfg.TripUpdatesURL)
	if err != nil {
		return nil, fmt.Errorf("trip updates: %w", err)
	}
	return NewDelaySnapshot(b)
}
