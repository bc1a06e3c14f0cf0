package tripsearch

import (
	"testing"

	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

func threeTripTimetable() *transit.Timetable {
	mk := func(dep int32) transit.TripSchedule {
		return transit.TripSchedule{DepartureSec: []int32{dep}, ArrivalSec: []int32{dep}}
	}
	return &transit.Timetable{Trips: []transit.TripSchedule{
		mk(9 * 3600),
		mk(9*3600 + 600),
		mk(9*3600 + 1200),
	}}
}

func TestForwardBoundary(t *testing.T) {
	s := NewSearcher(threeTripTimetable())

	r := s.Forward(9*3600+300, 0, -1) // 09:05
	if !r.Found || r.TripIndex != 1 {
		t.Errorf("t_eb=09:05 -> TripIndex=%d found=%v, want 1/true", r.TripIndex, r.Found)
	}

	r = s.Forward(9*3600, 0, -1) // 09:00
	if !r.Found || r.TripIndex != 0 {
		t.Errorf("t_eb=09:00 -> TripIndex=%d found=%v, want 0/true", r.TripIndex, r.Found)
	}

	r = s.Forward(9*3600+1260, 0, -1) // 09:21
	if r.Found {
		t.Errorf("t_eb=09:21 -> found=%v, want false (no trip departs that late)", r.Found)
	}
}

func TestForwardRespectsTripIndexLimit(t *testing.T) {
	s := NewSearcher(threeTripTimetable())

	r := s.Forward(9*3600, 0, 0) // only trip 0 is eligible
	if !r.Found || r.TripIndex != 0 {
		t.Errorf("limit=0 -> TripIndex=%d found=%v, want 0/true", r.TripIndex, r.Found)
	}

	r = s.Forward(9*3600+600, 0, 0) // trip 1 departs on time but limit excludes it
	if r.Found {
		t.Errorf("limit=0 with earliest board after trip 0 -> found=%v, want false", r.Found)
	}
}

// TestForwardMonotonic checks that the returned trip index never
// decreases as earliestBoardTime increases.
func TestForwardMonotonic(t *testing.T) {
	s := NewSearcher(threeTripTimetable())
	prev := transit.TripIndex(-1)
	for t_eb := int32(9 * 3600); t_eb <= 9*3600+1500; t_eb += 37 {
		r := s.Forward(t_eb, 0, -1)
		idx := r.TripIndex
		if !r.Found {
			idx = transit.TripIndex(1 << 30) // treat "none" as +inf for monotonicity purposes
		}
		if idx < prev {
			t.Fatalf("trip index decreased at t_eb=%d: prev=%d now=%d", t_eb, prev, idx)
		}
		prev = idx
	}
}

func TestReverseFindsLatestArrival(t *testing.T) {
	s := NewSearcher(threeTripTimetable())

	r := s.Reverse(9*3600+700, 0)
	if !r.Found || r.TripIndex != 1 {
		t.Errorf("Reverse(09:11:40) -> TripIndex=%d found=%v, want 1/true", r.TripIndex, r.Found)
	}

	r = s.Reverse(9*3600-1, 0)
	if r.Found {
		t.Errorf("Reverse before the first trip's arrival should find nothing, got found=%v", r.Found)
	}
}
