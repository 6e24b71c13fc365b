package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/gtfs"
)

// fetcher loads a static GTFS feed from a URL or a local zip or directory.
type fetcher struct {
	httpClient *http.Client
}

func newFetcher() *fetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// loadGTFS downloads location when it is a URL, otherwise reads it from disk.
func (f *fetcher) loadGTFS(ctx context.Context, location, agencyID string) (*gtfs.GTFSIndex, error) {
	if location == "" {
		return nil, fmt.Errorf("no GTFS location configured")
	}
	if !isURL(location) {
		return gtfs.LoadFromPath(location, agencyID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, location)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return gtfs.NewGTFSIndexFromBytes(data, agencyID)
}
