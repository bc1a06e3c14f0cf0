// Package gtfsloader reads a GTFS static feed (a zip of CSV files) and
// builds the compact transit.Data model the Raptor core runs against
// (C8). Column access is by header name, not position, so feeds that
// add or reorder optional columns still parse.
package gtfsloader

// rawStop is one row of stops.txt.
type rawStop struct {
	StopID string
	Name   string
	Lat    float64
	Lon    float64
}

// rawRoute is one row of routes.txt.
type rawRoute struct {
	RouteID   string
	ShortName string
	LongName  string
	RouteType int
}

// rawTrip is one row of trips.txt.
type rawTrip struct {
	TripID    string
	RouteID   string
	ServiceID string
}

// rawStopTime is one row of stop_times.txt.
type rawStopTime struct {
	TripID        string
	StopID        string
	StopSequence  int
	ArrivalTime   string
	DepartureTime string
	PickupType    int
	DropOffType   int
}

// rawCalendar is one row of calendar.txt.
type rawCalendar struct {
	ServiceID string
	Weekdays  [7]bool // Monday .. Sunday
	StartDate string
	EndDate   string
}

// rawCalendarDate is one row of calendar_dates.txt.
type rawCalendarDate struct {
	ServiceID     string
	Date          string
	ExceptionType int // 1 = added, 2 = removed
}

// RawFeed is the unprocessed content of a GTFS feed, before it is
// turned into a transit.Data. Calendar and CalendarDates are carried
// through for callers that want service-day information but are not
// consulted by Build: this engine answers "what departs at time T"
// without filtering by service day, deferring that decision to the
// caller (an explicit scope decision, not an oversight).
type RawFeed struct {
	Stops         []rawStop
	Routes        []rawRoute
	Trips         []rawTrip
	StopTimes     []rawStopTime
	Calendar      []rawCalendar
	CalendarDates []rawCalendarDate
}

// Warning records a single malformed row that was dropped rather than
// failing the whole load, surfaced to the caller as a diagnostic.
type Warning struct {
	File    string
	Line    int
	Message string
}
