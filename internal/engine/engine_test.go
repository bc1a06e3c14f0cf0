package engine

import (
	"context"
	"testing"

	"github.com/twtwtiwa05/korean-raptor/internal/access"
	"github.com/twtwtiwa05/korean-raptor/internal/config"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

func buildEngineData(t *testing.T) *transit.Data {
	t.Helper()
	d := transit.NewData(2)
	d.SetStop(0, "Origin", 37.5000, 127.0000)
	d.SetStop(1, "Destination", 37.5050, 127.0000)

	p := transit.Pattern{StopSequence: []transit.StopIndex{0, 1}, SlackIdx: transit.ModeBus, DebugTag: "line", RouteID: "R1"}
	trip := transit.TripSchedule{
		DepartureSec: []int32{9 * 3600, 9*3600 + 900},
		ArrivalSec:   []int32{9 * 3600, 9*3600 + 900},
	}
	if _, err := d.AddPattern(p, transit.Timetable{Trips: []transit.TripSchedule{trip}}); err != nil {
		t.Fatalf("AddPattern: %v", err)
	}
	return d
}

func testConfig() *config.Config {
	return &config.Config{
		MaxAccessWalkMeters:         400,
		MaxEgressWalkMeters:         400,
		WalkSpeedMPS:                1.2,
		SearchWindowSeconds:         1800,
		MaxAccessStops:              5,
		MaxEgressStops:              5,
		NumberOfAdditionalTransfers: 3,
	}
}

func TestRouteFindsDirectItinerary(t *testing.T) {
	d := buildEngineData(t)
	cfg := testConfig()
	resolver := access.NewResolver(d, cfg.MaxAccessWalkMeters, cfg.WalkSpeedMPS, cfg.MaxAccessStops)
	e := New(d, resolver, cfg)

	result, err := e.Route(context.Background(), Request{
		FromLat: 37.5000, FromLon: 127.0000,
		ToLat: 37.5050, ToLon: 127.0000,
		DepartureSec: 9*3600 - 300,
		MaxResults:   3,
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if result.Diagnostic != DiagnosticOK {
		t.Errorf("Diagnostic = %q, want DiagnosticOK", result.Diagnostic)
	}
	if len(result.Itineraries) == 0 {
		t.Fatal("expected at least one itinerary")
	}
	if result.Itineraries[0].Legs[0].Kind != "access_walk" {
		t.Errorf("first leg should be an access walk, got %v", result.Itineraries[0].Legs[0].Kind)
	}
}

func TestRouteByStopFindsDirectRide(t *testing.T) {
	d := buildEngineData(t)
	cfg := testConfig()
	resolver := access.NewResolver(d, cfg.MaxAccessWalkMeters, cfg.WalkSpeedMPS, cfg.MaxAccessStops)
	e := New(d, resolver, cfg)

	result, err := e.RouteByStop(context.Background(), StopRequest{FromStop: 0, ToStop: 1, DepartureSec: 9*3600 - 60})
	if err != nil {
		t.Fatalf("RouteByStop: %v", err)
	}
	if result.Diagnostic != DiagnosticOK {
		t.Errorf("Diagnostic = %q, want DiagnosticOK", result.Diagnostic)
	}
	if result.Itinerary.NumberOfRides != 1 {
		t.Errorf("NumberOfRides = %d, want 1", result.Itinerary.NumberOfRides)
	}
}

func TestRouteReturnsNoPathWhenUnreachable(t *testing.T) {
	d := transit.NewData(2)
	d.SetStop(0, "A", 37.50, 127.00)
	d.SetStop(1, "B", 38.50, 129.00) // far enough that no access/egress candidate qualifies

	cfg := testConfig()
	resolver := access.NewResolver(d, cfg.MaxAccessWalkMeters, cfg.WalkSpeedMPS, cfg.MaxAccessStops)
	e := New(d, resolver, cfg)

	result, err := e.Route(context.Background(), Request{FromLat: 37.50, FromLon: 127.00, ToLat: 38.50, ToLon: 129.00, DepartureSec: 0})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if result.Diagnostic != DiagnosticNoAccess && result.Diagnostic != DiagnosticNoEgress && result.Diagnostic != DiagnosticNoPath {
		t.Errorf("Diagnostic = %q, want NoAccess, NoEgress or NoPath", result.Diagnostic)
	}
	if len(result.Itineraries) != 0 {
		t.Errorf("expected no itineraries, got %d", len(result.Itineraries))
	}
}

// TestRouteFiltersOnFirstRideDepartureNotAccessWalkStart covers S6: a
// trip boarding at 10:00 must not be returned when the caller departs
// at 09:00 with a 15-minute search window, even though the access walk
// itself starts at the requested 09:00 departure.
func TestRouteFiltersOnFirstRideDepartureNotAccessWalkStart(t *testing.T) {
	d := transit.NewData(2)
	d.SetStop(0, "Origin", 37.5000, 127.0000)
	d.SetStop(1, "Destination", 37.5050, 127.0000)

	p := transit.Pattern{StopSequence: []transit.StopIndex{0, 1}, SlackIdx: transit.ModeBus, DebugTag: "line", RouteID: "R1"}
	trip := transit.TripSchedule{
		DepartureSec: []int32{10 * 3600, 10*3600 + 900},
		ArrivalSec:   []int32{10 * 3600, 10*3600 + 900},
	}
	if _, err := d.AddPattern(p, transit.Timetable{Trips: []transit.TripSchedule{trip}}); err != nil {
		t.Fatalf("AddPattern: %v", err)
	}

	cfg := testConfig()
	cfg.SearchWindowSeconds = 900
	resolver := access.NewResolver(d, cfg.MaxAccessWalkMeters, cfg.WalkSpeedMPS, cfg.MaxAccessStops)
	e := New(d, resolver, cfg)

	result, err := e.Route(context.Background(), Request{
		FromLat: 37.5000, FromLon: 127.0000,
		ToLat: 37.5050, ToLon: 127.0000,
		DepartureSec: 9 * 3600,
		MaxResults:   3,
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if result.Diagnostic != DiagnosticNoPath {
		t.Errorf("Diagnostic = %q, want DiagnosticNoPath", result.Diagnostic)
	}
	if len(result.Itineraries) != 0 {
		t.Errorf("expected the 10:00 boarding to be filtered out, got %d itineraries", len(result.Itineraries))
	}
}
