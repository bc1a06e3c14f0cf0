// Package tripsearch implements the forward and reverse binary search
// into a pattern's timetable used by each Raptor round to find the
// earliest boardable trip at a stop.
package tripsearch

import "github.com/twtwtiwa05/korean-raptor/internal/transit"

// NoTripFound is returned by Searcher.Forward/Reverse when no trip
// satisfies the search.
const NoTripFound = transit.TripIndex(-1)

// Result is the small value returned by a trip search. It is reused
// across calls on the same Searcher to avoid per-call allocation, as
// the search is on the hot path of Raptor's phase A.
type Result struct {
	TripIndex    transit.TripIndex
	TimeAtStop   int32
	StopPosition int
	Found        bool
}

// Searcher runs repeated forward or reverse trip searches against a
// single pattern's timetable. It holds the timetable reference and the
// single Result slot every call overwrites; a Searcher may be reused
// across positions within the same Raptor round for the same pattern.
type Searcher struct {
	timetable *transit.Timetable
	result    Result
}

// NewSearcher returns a Searcher bound to a pattern's timetable.
func NewSearcher(tt *transit.Timetable) *Searcher {
	return &Searcher{timetable: tt}
}

// Forward finds the smallest trip index j such that
// Departure(j, pos) >= earliestBoardTime and j <= tripIndexLimit (or
// unbounded if limit is negative). Because departures at a fixed
// position are non-decreasing across trips (the timetable invariant),
// this is a binary search: O(log numTrips) per call (spec.md P5).
func (s *Searcher) Forward(earliestBoardTime int32, pos int, tripIndexLimit transit.TripIndex) *Result {
	n := s.timetable.NumTrips()
	hi := n
	if tripIndexLimit >= 0 && int(tripIndexLimit)+1 < hi {
		hi = int(tripIndexLimit) + 1
	}

	lo := 0
	for lo < hi {
		mid := (lo + hi) / 2
		if s.timetable.Trip(mid).Departure(pos) >= earliestBoardTime {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	if lo >= n || (tripIndexLimit >= 0 && lo > int(tripIndexLimit)) {
		s.result = Result{TripIndex: NoTripFound, Found: false}
		return &s.result
	}

	trip := s.timetable.Trip(lo)
	s.result = Result{
		TripIndex:    transit.TripIndex(lo),
		TimeAtStop:   trip.Departure(pos),
		StopPosition: pos,
		Found:        true,
	}
	return &s.result
}

// Reverse finds the largest trip index j such that
// Arrival(j, pos) <= latestAlightTime, for a reverse Raptor search.
func (s *Searcher) Reverse(latestAlightTime int32, pos int) *Result {
	n := s.timetable.NumTrips()
	lo, hi := -1, n-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.timetable.Trip(mid).Arrival(pos) <= latestAlightTime {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	if lo < 0 {
		s.result = Result{TripIndex: NoTripFound, Found: false}
		return &s.result
	}

	trip := s.timetable.Trip(lo)
	s.result = Result{
		TripIndex:    transit.TripIndex(lo),
		TimeAtStop:   trip.Arrival(pos),
		StopPosition: pos,
		Found:        true,
	}
	return &s.result
}
