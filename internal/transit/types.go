// Package transit holds the compact, array-oriented transit data model:
// stops, trip patterns, timetables, transfers and the stop-to-pattern
// index built by the GTFS loader and consumed read-only by the Raptor
// core and the access/egress resolver.
package transit

// StopIndex, PatternIndex and TripIndex are dense, zero-based identifiers.
// A value of -1 denotes absence where that is meaningful (e.g. "no trip
// found").
type StopIndex int32
type PatternIndex int32
type TripIndex int32

// NoTime marks the absence of a time value (invariant I4).
const NoTime = -1

// Mode is the slack-table row a pattern's route type maps to.
type Mode uint8

const (
	ModeSubway Mode = 0
	ModeBus    Mode = 1
	ModeRail   Mode = 2
	ModeOther  Mode = 3
)

// Transfer is a directed walking edge between two distinct stops.
// Transfers are generated symmetrically: if (a, b, d) exists, (b, a, d)
// exists too (invariant P4).
type Transfer struct {
	ToStop         StopIndex
	DurationSec    int32
	DistanceMeters float64
}

// Pattern is a maximal group of trips sharing the same ordered stop
// sequence on the same route. Immutable after load.
type Pattern struct {
	StopSequence []StopIndex
	SlackIdx     Mode
	DebugTag     string

	// canBoard/canAlight default to true everywhere except canBoard at
	// the last position and canAlight at the first; nil means "use the
	// default for every position" so patterns without pickup/dropoff
	// restrictions don't carry two redundant bool slices.
	canBoard  []bool
	canAlight []bool

	// Route display metadata (Pattern = Route, 1:1 in this design).
	RouteID        string
	RouteShortName string
	RouteLongName  string
	RouteType      int
}

// NumStops returns the number of stops visited by the pattern.
func (p *Pattern) NumStops() int { return len(p.StopSequence) }

// StopAt returns the stop at in-pattern position i.
func (p *Pattern) StopAt(i int) StopIndex { return p.StopSequence[i] }

// SlackIndex returns the pattern's slack-table row.
func (p *Pattern) SlackIndex() Mode { return p.SlackIdx }

// CanBoardAt reports whether boarding is permitted at position i.
// Default: boarding is allowed everywhere but the last position.
func (p *Pattern) CanBoardAt(i int) bool {
	if p.canBoard != nil {
		return p.canBoard[i]
	}
	return i < len(p.StopSequence)-1
}

// CanAlightAt reports whether alighting is permitted at position i.
// Default: alighting is allowed everywhere but the first position.
func (p *Pattern) CanAlightAt(i int) bool {
	if p.canAlight != nil {
		return p.canAlight[i]
	}
	return i > 0
}

// SetBoardAlightFlags installs explicit per-position pickup/dropoff
// restrictions, used when the GTFS feed marks pickup_type/drop_off_type
// as "none" for some stop_times rows.
func (p *Pattern) SetBoardAlightFlags(canBoard, canAlight []bool) {
	p.canBoard = canBoard
	p.canAlight = canAlight
}

// TripSchedule is one concrete vehicle run realizing a pattern.
type TripSchedule struct {
	ArrivalSec   []int32
	DepartureSec []int32
	DisplayID    string
}

// SortKey is the time used to order trips within a timetable: the first
// stop's departure.
func (t *TripSchedule) SortKey() int32 { return t.DepartureSec[0] }

// Arrival returns the arrival time at in-pattern position i.
func (t *TripSchedule) Arrival(i int) int32 { return t.ArrivalSec[i] }

// Departure returns the departure time at in-pattern position i.
func (t *TripSchedule) Departure(i int) int32 { return t.DepartureSec[i] }

// Timetable is the ordered sequence of a pattern's trip schedules,
// sorted by non-decreasing SortKey.
type Timetable struct {
	Trips []TripSchedule
}

// NumTrips returns the number of scheduled trips.
func (tt *Timetable) NumTrips() int { return len(tt.Trips) }

// Trip returns the t-th trip in the timetable.
func (tt *Timetable) Trip(t int) *TripSchedule { return &tt.Trips[t] }
