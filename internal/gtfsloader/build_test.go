package gtfsloader

import "testing"

func sampleFeed() *RawFeed {
	return &RawFeed{
		Stops: []rawStop{
			{StopID: "S1", Name: "First", Lat: 37.50, Lon: 127.00},
			{StopID: "S2", Name: "Second", Lat: 37.51, Lon: 127.00},
			{StopID: "S3", Name: "Third", Lat: 37.52, Lon: 127.00},
		},
		Routes: []rawRoute{
			{RouteID: "R1", ShortName: "1", RouteType: 3},
		},
		Trips: []rawTrip{
			{TripID: "T1", RouteID: "R1", ServiceID: "WEEKDAY"},
			{TripID: "T2", RouteID: "R1", ServiceID: "WEEKDAY"},
		},
		StopTimes: []rawStopTime{
			{TripID: "T1", StopID: "S1", StopSequence: 1, ArrivalTime: "09:00:00", DepartureTime: "09:00:00"},
			{TripID: "T1", StopID: "S2", StopSequence: 2, ArrivalTime: "09:05:00", DepartureTime: "09:05:00"},
			{TripID: "T1", StopID: "S3", StopSequence: 3, ArrivalTime: "09:10:00", DepartureTime: "09:10:00"},
			{TripID: "T2", StopID: "S1", StopSequence: 1, ArrivalTime: "09:30:00", DepartureTime: "09:30:00"},
			{TripID: "T2", StopID: "S2", StopSequence: 2, ArrivalTime: "09:35:00", DepartureTime: "09:35:00"},
			{TripID: "T2", StopID: "S3", StopSequence: 3, ArrivalTime: "09:40:00", DepartureTime: "09:40:00"},
		},
	}
}

func TestBuildProducesOnePatternWithTwoTrips(t *testing.T) {
	feed := sampleFeed()
	data, warnings, err := Build(feed, 500, 1.2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if data.NumPatterns() != 1 {
		t.Fatalf("NumPatterns = %d, want 1", data.NumPatterns())
	}
	tt := data.Timetable(0)
	if tt.NumTrips() != 2 {
		t.Errorf("NumTrips = %d, want 2", tt.NumTrips())
	}
	if data.StopName(0) != "First" {
		t.Errorf("StopName(0) = %q, want First", data.StopName(0))
	}
}

func TestBuildDropsTripWithUnknownStop(t *testing.T) {
	feed := sampleFeed()
	feed.StopTimes = append(feed.StopTimes, rawStopTime{TripID: "T3", StopID: "GHOST", StopSequence: 1, ArrivalTime: "10:00:00", DepartureTime: "10:00:00"})
	feed.StopTimes = append(feed.StopTimes, rawStopTime{TripID: "T3", StopID: "S1", StopSequence: 2, ArrivalTime: "10:05:00", DepartureTime: "10:05:00"})
	feed.Trips = append(feed.Trips, rawTrip{TripID: "T3", RouteID: "R1", ServiceID: "WEEKDAY"})

	data, warnings, err := Build(feed, 500, 1.2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the unknown-stop trip")
	}
	if data.Timetable(0).NumTrips() != 2 {
		t.Errorf("NumTrips = %d, want 2 (T3 should have been dropped)", data.Timetable(0).NumTrips())
	}
}

func TestBuildDropsTripWithNonMonotonicStopTimes(t *testing.T) {
	feed := sampleFeed()
	feed.Trips = append(feed.Trips, rawTrip{TripID: "T3", RouteID: "R1", ServiceID: "WEEKDAY"})
	feed.StopTimes = append(feed.StopTimes,
		rawStopTime{TripID: "T3", StopID: "S1", StopSequence: 1, ArrivalTime: "10:00:00", DepartureTime: "10:00:00"},
		rawStopTime{TripID: "T3", StopID: "S2", StopSequence: 2, ArrivalTime: "09:55:00", DepartureTime: "09:55:00"},
		rawStopTime{TripID: "T3", StopID: "S3", StopSequence: 3, ArrivalTime: "10:10:00", DepartureTime: "10:10:00"},
	)

	data, warnings, err := Build(feed, 500, 1.2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the non-monotonic trip")
	}
	if data.Timetable(0).NumTrips() != 2 {
		t.Errorf("NumTrips = %d, want 2 (T3 should have been dropped)", data.Timetable(0).NumTrips())
	}
}

func TestBuildDropsTripWithArrivalAfterDeparture(t *testing.T) {
	feed := sampleFeed()
	feed.Trips = append(feed.Trips, rawTrip{TripID: "T3", RouteID: "R1", ServiceID: "WEEKDAY"})
	feed.StopTimes = append(feed.StopTimes,
		rawStopTime{TripID: "T3", StopID: "S1", StopSequence: 1, ArrivalTime: "10:05:00", DepartureTime: "10:00:00"},
		rawStopTime{TripID: "T3", StopID: "S2", StopSequence: 2, ArrivalTime: "10:10:00", DepartureTime: "10:10:00"},
		rawStopTime{TripID: "T3", StopID: "S3", StopSequence: 3, ArrivalTime: "10:15:00", DepartureTime: "10:15:00"},
	)

	data, warnings, err := Build(feed, 500, 1.2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the trip with arrival after departure")
	}
	if data.Timetable(0).NumTrips() != 2 {
		t.Errorf("NumTrips = %d, want 2 (T3 should have been dropped)", data.Timetable(0).NumTrips())
	}
}

func TestBuildMapsRouteTypeToSlackIndex(t *testing.T) {
	feed := sampleFeed()
	feed.Routes[0].RouteType = 1 // subway
	data, _, err := Build(feed, 500, 1.2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pattern := data.Pattern(0)
	if pattern.SlackIndex() != 0 { // transit.ModeSubway == 0
		t.Errorf("SlackIndex() = %d, want ModeSubway", pattern.SlackIndex())
	}
}

func TestParseGTFSTimePastMidnight(t *testing.T) {
	sec, err := parseGTFSTime("25:30:00")
	if err != nil {
		t.Fatalf("parseGTFSTime: %v", err)
	}
	if sec != 25*3600+30*60 {
		t.Errorf("sec = %d, want %d", sec, 25*3600+30*60)
	}
}

func TestParseGTFSTimeMalformed(t *testing.T) {
	if _, err := parseGTFSTime("bad"); err == nil {
		t.Error("expected an error for a malformed time")
	}
}
