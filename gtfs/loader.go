package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNoStopTimes is returned when a feed has no stop_times.txt at all.
var ErrNoStopTimes = errors.New("gtfs: feed has no stop_times.txt")

var feedFiles = []string{"agency.txt", "routes.txt", "trips.txt", "stops.txt", "stop_times.txt", "shapes.txt"}

func isFeedFile(name string) bool {
	for _, f := range feedFiles {
		if name == f {
			return true
		}
	}
	return false
}

// NewGTFSIndexFromBytes builds an index from the raw bytes of a GTFS zip.
func NewGTFSIndexFromBytes(data []byte, agencyID string) (*GTFSIndex, error) {
	return NewGTFSIndexFromReader(bytes.NewReader(data), int64(len(data)), agencyID)
}

// NewGTFSIndexFromReader builds an index from a GTFS zip exposed as an io.ReaderAt.
func NewGTFSIndexFromReader(r io.ReaderAt, size int64, agencyID string) (*GTFSIndex, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open gtfs zip: %w", err)
	}
	g := NewGTFSIndex(agencyID)
	seen := false
	for _, f := range zr.File {
		// feeds are sometimes zipped with a top-level folder
		name := strings.ToLower(filepath.Base(f.Name))
		if !isFeedFile(name) {
			continue
		}
		if name == "stop_times.txt" {
			seen = true
		}
		if err := g.consumeZipFile(f, name); err != nil {
			return nil, err
		}
	}
	if !seen {
		return nil, ErrNoStopTimes
	}
	return g, nil
}

// LoadFromPath loads a feed from a local zip file or a directory of .txt files.
func LoadFromPath(path, agencyID string) (*GTFSIndex, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat gtfs feed: %w", err)
	}
	if !st.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read gtfs zip: %w", err)
		}
		return NewGTFSIndexFromBytes(data, agencyID)
	}

	g := NewGTFSIndex(agencyID)
	for _, name := range feedFiles {
		f, err := os.Open(filepath.Join(path, name))
		if errors.Is(err, os.ErrNotExist) {
			if name == "stop_times.txt" {
				return nil, ErrNoStopTimes
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		err = g.consumeCSV(name, f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *GTFSIndex) consumeZipFile(f *zip.File, name string) error {
	r, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer r.Close()
	return g.consumeCSV(name, r)
}

func (g *GTFSIndex) consumeCSV(name string, r io.Reader) error {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true
	rec, err := csvr.ReadAll()
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	switch name {
	case "agency.txt":
		agID := idx("agency_id")
		if len(rec) > 1 && g.agencyID == "" {
			g.agencyID = cell(rec[1], agID)
		}
	case "routes.txt":
		rID := idx("route_id")
		rSN := idx("route_short_name")
		rLN := idx("route_long_name")
		rType := idx("route_type")
		if rID < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			id := cell(row, rID)
			g.routeShortNames[id] = cell(row, rSN)
			g.routeLongNames[id] = cell(row, rLN)
			if typeInt, err := strconv.Atoi(cell(row, rType)); err == nil {
				g.routeTypes[id] = typeInt
			}
		}
	case "trips.txt":
		rID := idx("route_id")
		tID := idx("trip_id")
		sh := idx("shape_id")
		if tID < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			trip := cell(row, tID)
			if rID >= 0 {
				g.tripToRoute[trip] = cell(row, rID)
			}
			if s := cell(row, sh); s != "" {
				g.tripShapeID[trip] = s
			}
		}
	case "stops.txt":
		sID := idx("stop_id")
		sLat := idx("stop_lat")
		sLon := idx("stop_lon")
		if sID < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			id := cell(row, sID)
			lat, errLat := strconv.ParseFloat(cell(row, sLat), 64)
			lon, errLon := strconv.ParseFloat(cell(row, sLon), 64)
			// stations without coordinates stay unresolvable
			if errLat == nil && errLon == nil {
				g.stopCoord[id] = [2]float64{lon, lat}
			}
		}
	case "stop_times.txt":
		tID := idx("trip_id")
		sID := idx("stop_id")
		sq := idx("stop_sequence")
		if tID < 0 || sID < 0 || sq < 0 {
			return nil
		}
		type stopAt struct {
			stop string
			seq  int
		}
		tmp := map[string][]stopAt{}
		for _, row := range rec[1:] {
			seq, _ := strconv.Atoi(cell(row, sq))
			trip := cell(row, tID)
			tmp[trip] = append(tmp[trip], stopAt{cell(row, sID), seq})
		}
		for trip, arr := range tmp {
			sort.SliceStable(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
			seqStops := make([]string, 0, len(arr))
			for _, v := range arr {
				seqStops = append(seqStops, v.stop)
			}
			g.TripStopSeq[trip] = seqStops
		}
	case "shapes.txt":
		sh := idx("shape_id")
		latIdx := idx("shape_pt_lat")
		lonIdx := idx("shape_pt_lon")
		seqIdx := idx("shape_pt_sequence")
		if sh < 0 || latIdx < 0 || lonIdx < 0 {
			return nil
		}
		type point struct {
			lon, lat float64
			seq      int
		}
		tmp := map[string][]point{}
		for _, row := range rec[1:] {
			shapeID := cell(row, sh)
			lat, errLat := strconv.ParseFloat(cell(row, latIdx), 64)
			lon, errLon := strconv.ParseFloat(cell(row, lonIdx), 64)
			if errLat != nil || errLon != nil {
				continue
			}
			seq, _ := strconv.Atoi(cell(row, seqIdx))
			tmp[shapeID] = append(tmp[shapeID], point{lon, lat, seq})
		}
		for shapeID, arr := range tmp {
			if seqIdx >= 0 {
				sort.SliceStable(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
			}
			pts := make([][2]float64, len(arr))
			for i, p := range arr {
				pts[i] = [2]float64{p.lon, p.lat}
			}
			g.ShapePoints[shapeID] = pts
		}
	}
	return nil
}
