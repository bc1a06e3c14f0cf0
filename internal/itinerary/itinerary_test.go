package itinerary

import (
	"context"
	"testing"

	"github.com/twtwtiwa05/korean-raptor/internal/raptor"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

func buildTwoLegData(t *testing.T) *transit.Data {
	t.Helper()
	d := transit.NewData(3)
	d.SetStop(0, "A", 37.50, 127.00)
	d.SetStop(1, "B", 37.51, 127.00)
	d.SetStop(2, "C", 37.52, 127.00)

	p := transit.Pattern{StopSequence: []transit.StopIndex{0, 1, 2}, SlackIdx: transit.ModeBus, DebugTag: "line", RouteID: "R1", RouteShortName: "1"}
	trip := transit.TripSchedule{
		DepartureSec: []int32{9 * 3600, 9*3600 + 600, 9*3600 + 1200},
		ArrivalSec:   []int32{9 * 3600, 9*3600 + 600, 9*3600 + 1200},
		DisplayID:    "T1",
	}
	if _, err := d.AddPattern(p, transit.Timetable{Trips: []transit.TripSchedule{trip}}); err != nil {
		t.Fatalf("AddPattern: %v", err)
	}
	return d
}

func TestReconstructDirectRide(t *testing.T) {
	d := buildTwoLegData(t)
	access := []raptor.AccessEgress{{Stop: 0, DurationSec: 120, DistanceMeters: 150}}
	egress := []raptor.AccessEgress{{Stop: 2, DurationSec: 90, DistanceMeters: 100}}
	t0 := int32(9*3600 - 180)

	labels := raptor.Run(context.Background(), d, access, egress, t0, 3)

	var bestRound int
	for k := 0; k <= labels.Rounds; k++ {
		if labels.RoundArrival[k][2] == labels.BestArrival[2] {
			bestRound = k
			break
		}
	}

	it, ok := Reconstruct(d, labels, bestRound, 2, egress[0], t0)
	if !ok {
		t.Fatal("expected a reconstructable itinerary")
	}
	if len(it.Legs) != 3 {
		t.Fatalf("expected access+ride+egress = 3 legs, got %d: %+v", len(it.Legs), it.Legs)
	}
	if it.Legs[0].Kind != LegAccessWalk || it.Legs[1].Kind != LegRide || it.Legs[2].Kind != LegEgressWalk {
		t.Fatalf("unexpected leg kinds: %v %v %v", it.Legs[0].Kind, it.Legs[1].Kind, it.Legs[2].Kind)
	}
	if it.NumberOfRides != 1 {
		t.Errorf("NumberOfRides = %d, want 1", it.NumberOfRides)
	}
	if it.Legs[1].RouteID != "R1" {
		t.Errorf("ride leg RouteID = %q, want R1", it.Legs[1].RouteID)
	}
	if it.ArrivalSec != it.Legs[2].ArrivalSec {
		t.Errorf("Itinerary.ArrivalSec should match the egress leg's arrival")
	}
}

func TestReconstructMissingChainReturnsFalse(t *testing.T) {
	d := buildTwoLegData(t)
	labels := raptor.Run(context.Background(), d, nil, nil, 0, 3)
	_, ok := Reconstruct(d, labels, 0, 1, raptor.AccessEgress{Stop: 1}, 0)
	if ok {
		t.Error("expected no itinerary when stop 1 was never reached")
	}
}
