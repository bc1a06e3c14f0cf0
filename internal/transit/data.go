package transit

import (
	"fmt"
	"math"
	"sort"

	"github.com/twtwtiwa05/korean-raptor/internal/geo"
)

// Data is the immutable, array-oriented transit data model: stops,
// patterns, timetables, transfers and the stop-to-pattern index. It is
// built once by a loader and shared, read-only, across concurrent
// queries (§5).
type Data struct {
	stopNames []string
	stopLats  []float64
	stopLons  []float64

	patternsAtStop [][]PatternIndex

	patterns   []Pattern
	timetables []Timetable

	transfersFrom [][]Transfer
	transfersTo   [][]Transfer

	slack SlackTable
}

// NewData constructs an empty Data with nStops stops and the default
// slack table; the loader fills in names/coordinates and then calls
// AddPattern for every pattern it discovers.
func NewData(nStops int) *Data {
	return &Data{
		stopNames:      make([]string, nStops),
		stopLats:       make([]float64, nStops),
		stopLons:       make([]float64, nStops),
		patternsAtStop: make([][]PatternIndex, nStops),
		transfersFrom:  make([][]Transfer, nStops),
		transfersTo:    make([][]Transfer, nStops),
		slack:          DefaultSlackTable(),
	}
}

// NumStops returns the number of stops in the data set.
func (d *Data) NumStops() int { return len(d.stopNames) }

// NumPatterns returns the number of patterns in the data set.
func (d *Data) NumPatterns() int { return len(d.patterns) }

// SetStop sets a stop's immutable attributes. idx must be in [0, NumStops).
func (d *Data) SetStop(idx StopIndex, name string, lat, lon float64) {
	d.stopNames[idx] = name
	d.stopLats[idx] = lat
	d.stopLons[idx] = lon
}

// StopName returns a stop's display name.
func (d *Data) StopName(s StopIndex) string { return d.stopNames[s] }

// StopLat returns a stop's latitude.
func (d *Data) StopLat(s StopIndex) float64 { return d.stopLats[s] }

// StopLon returns a stop's longitude.
func (d *Data) StopLon(s StopIndex) float64 { return d.stopLons[s] }

// Slack returns the engine's slack table.
func (d *Data) Slack() SlackTable { return d.slack }

// SetSlack overrides the default slack table (used by tests and by
// deployments that tune boarding/alighting/transfer padding).
func (d *Data) SetSlack(s SlackTable) { d.slack = s }

// AddPattern appends a pattern and its timetable, registering the
// pattern against every stop it visits (invariant I3). Returns the new
// pattern's index.
func (d *Data) AddPattern(p Pattern, tt Timetable) (PatternIndex, error) {
	if len(tt.Trips) == 0 {
		return -1, fmt.Errorf("pattern %q has no trips after filtering", p.DebugTag)
	}
	sort.SliceStable(tt.Trips, func(i, j int) bool {
		return tt.Trips[i].SortKey() < tt.Trips[j].SortKey()
	})

	idx := PatternIndex(len(d.patterns))
	d.patterns = append(d.patterns, p)
	d.timetables = append(d.timetables, tt)

	seen := make(map[StopIndex]bool, len(p.StopSequence))
	for _, s := range p.StopSequence {
		if seen[s] {
			continue
		}
		seen[s] = true
		d.patternsAtStop[s] = append(d.patternsAtStop[s], idx)
	}
	return idx, nil
}

// PatternsAtStop returns the deduplicated list of patterns touching stop s.
func (d *Data) PatternsAtStop(s StopIndex) []PatternIndex { return d.patternsAtStop[s] }

// Pattern returns the pattern at index p.
func (d *Data) Pattern(p PatternIndex) *Pattern { return &d.patterns[p] }

// Timetable returns the timetable for pattern p.
func (d *Data) Timetable(p PatternIndex) *Timetable { return &d.timetables[p] }

// TransfersFrom returns the outgoing transfers from stop s, for the
// forward Raptor search.
func (d *Data) TransfersFrom(s StopIndex) []Transfer { return d.transfersFrom[s] }

// TransfersTo returns the incoming transfers to stop s, for a reverse
// search.
func (d *Data) TransfersTo(s StopIndex) []Transfer { return d.transfersTo[s] }

// AddTransfer inserts a transfer and its symmetric counterpart
// (invariant P4). Self-transfers are rejected.
func (d *Data) AddTransfer(a, b StopIndex, durationSec int32, distanceMeters float64) error {
	if a == b {
		return fmt.Errorf("transfer must connect distinct stops, got %d==%d", a, b)
	}
	d.transfersFrom[a] = append(d.transfersFrom[a], Transfer{ToStop: b, DurationSec: durationSec, DistanceMeters: distanceMeters})
	d.transfersTo[b] = append(d.transfersTo[b], Transfer{ToStop: a, DurationSec: durationSec, DistanceMeters: distanceMeters})

	d.transfersFrom[b] = append(d.transfersFrom[b], Transfer{ToStop: a, DurationSec: durationSec, DistanceMeters: distanceMeters})
	d.transfersTo[a] = append(d.transfersTo[a], Transfer{ToStop: b, DurationSec: durationSec, DistanceMeters: distanceMeters})
	return nil
}

// BuildTransfersFromCoordinates generates symmetric walking transfers
// between every pair of stops within maxDistanceMeters, using a
// lat/lon-bucketed grid to avoid the naive O(nStops^2) scan (the open
// question in spec.md §9). Cell size is chosen so that maxDistanceMeters
// never spans more than one cell in latitude; in longitude each stop
// scans ceil(1/cos(lat)) cells each way.
func (d *Data) BuildTransfersFromCoordinates(maxDistanceMeters, walkSpeedMPS float64) {
	n := d.NumStops()
	if n == 0 {
		return
	}

	cellSize := maxDistanceMeters / 111000.0
	if cellSize <= 0 {
		cellSize = 0.001
	}

	type cellKey struct{ lat, lon int64 }
	cellOf := func(lat, lon float64) cellKey {
		return cellKey{int64(lat / cellSize), int64(lon / cellSize)}
	}

	grid := make(map[cellKey][]StopIndex)
	for i := 0; i < n; i++ {
		k := cellOf(d.stopLats[i], d.stopLons[i])
		grid[k] = append(grid[k], StopIndex(i))
	}

	seenPair := make(map[[2]StopIndex]bool)
	for i := 0; i < n; i++ {
		s := StopIndex(i)
		k := cellOf(d.stopLats[i], d.stopLons[i])
		// A degree of longitude shrinks by cos(lat), so a lon cell is
		// narrower than maxDistanceMeters away from the equator.
		lonSpan := int64(math.Ceil(1 / math.Max(math.Cos(d.stopLats[i]*math.Pi/180), 0.01)))
		for dLat := int64(-1); dLat <= 1; dLat++ {
			for dLon := -lonSpan; dLon <= lonSpan; dLon++ {
				neighbors := grid[cellKey{k.lat + dLat, k.lon + dLon}]
				for _, other := range neighbors {
					if other <= s {
						continue
					}
					pair := [2]StopIndex{s, other}
					if seenPair[pair] {
						continue
					}
					seenPair[pair] = true

					dist := geo.Haversine(d.stopLats[s], d.stopLons[s], d.stopLats[other], d.stopLons[other])
					if dist <= maxDistanceMeters {
						durationSec := int32(geo.SecondsForDistance(dist, walkSpeedMPS))
						d.AddTransfer(s, other, durationSec, dist)
					}
				}
			}
		}
	}
}
