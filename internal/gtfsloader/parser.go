package gtfsloader

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Load opens a GTFS zip and parses every file it recognizes. A missing
// optional file (calendar, calendar_dates) is not an error; a
// missing stops.txt, routes.txt, trips.txt or stop_times.txt is.
func Load(zipPath string) (*RawFeed, []Warning, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening GTFS zip: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	feed := &RawFeed{}
	var warnings []Warning

	for _, required := range []string{"stops.txt", "routes.txt", "trips.txt", "stop_times.txt"} {
		if _, ok := files[required]; !ok {
			return nil, warnings, fmt.Errorf("GTFS feed is missing required file %s", required)
		}
	}

	var w []Warning
	feed.Stops, w = parseStops(files["stops.txt"])
	warnings = append(warnings, w...)
	feed.Routes, w = parseRoutes(files["routes.txt"])
	warnings = append(warnings, w...)
	feed.Trips, w = parseTrips(files["trips.txt"])
	warnings = append(warnings, w...)
	feed.StopTimes, w = parseStopTimes(files["stop_times.txt"])
	warnings = append(warnings, w...)

	if f, ok := files["calendar.txt"]; ok {
		feed.Calendar, w = parseCalendar(f)
		warnings = append(warnings, w...)
	}
	if f, ok := files["calendar_dates.txt"]; ok {
		feed.CalendarDates, w = parseCalendarDates(f)
		warnings = append(warnings, w...)
	}

	return feed, warnings, nil
}

func openCSV(f *zip.File) (*csv.Reader, func(), error) {
	rc, err := f.Open()
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1
	return r, func() { rc.Close() }, nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func parseStops(f *zip.File) ([]rawStop, []Warning) {
	r, closeFn, err := openCSV(f)
	if err != nil {
		return nil, []Warning{{File: "stops.txt", Message: err.Error()}}
	}
	defer closeFn()

	header, err := r.Read()
	if err != nil {
		return nil, []Warning{{File: "stops.txt", Message: "empty file"}}
	}
	idx := makeIndex(header)

	var stops []rawStop
	var warnings []Warning
	line := 1
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{File: "stops.txt", Line: line, Message: err.Error()})
			continue
		}
		lat, latErr := strconv.ParseFloat(getField(record, idx, "stop_lat"), 64)
		lon, lonErr := strconv.ParseFloat(getField(record, idx, "stop_lon"), 64)
		if latErr != nil || lonErr != nil {
			warnings = append(warnings, Warning{File: "stops.txt", Line: line, Message: "invalid stop_lat/stop_lon, row dropped"})
			continue
		}
		stops = append(stops, rawStop{
			StopID: getField(record, idx, "stop_id"),
			Name:   getField(record, idx, "stop_name"),
			Lat:    lat,
			Lon:    lon,
		})
	}
	return stops, warnings
}

func parseRoutes(f *zip.File) ([]rawRoute, []Warning) {
	r, closeFn, err := openCSV(f)
	if err != nil {
		return nil, []Warning{{File: "routes.txt", Message: err.Error()}}
	}
	defer closeFn()

	header, err := r.Read()
	if err != nil {
		return nil, []Warning{{File: "routes.txt", Message: "empty file"}}
	}
	idx := makeIndex(header)

	var routes []rawRoute
	var warnings []Warning
	line := 1
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{File: "routes.txt", Line: line, Message: err.Error()})
			continue
		}
		routeType, err := strconv.Atoi(getField(record, idx, "route_type"))
		if err != nil {
			warnings = append(warnings, Warning{File: "routes.txt", Line: line, Message: "invalid route_type, row dropped"})
			continue
		}
		routes = append(routes, rawRoute{
			RouteID:   getField(record, idx, "route_id"),
			ShortName: getField(record, idx, "route_short_name"),
			LongName:  getField(record, idx, "route_long_name"),
			RouteType: routeType,
		})
	}
	return routes, warnings
}

func parseTrips(f *zip.File) ([]rawTrip, []Warning) {
	r, closeFn, err := openCSV(f)
	if err != nil {
		return nil, []Warning{{File: "trips.txt", Message: err.Error()}}
	}
	defer closeFn()

	header, err := r.Read()
	if err != nil {
		return nil, []Warning{{File: "trips.txt", Message: "empty file"}}
	}
	idx := makeIndex(header)

	var trips []rawTrip
	var warnings []Warning
	line := 1
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{File: "trips.txt", Line: line, Message: err.Error()})
			continue
		}
		trips = append(trips, rawTrip{
			TripID:    getField(record, idx, "trip_id"),
			RouteID:   getField(record, idx, "route_id"),
			ServiceID: getField(record, idx, "service_id"),
		})
	}
	return trips, warnings
}

func parseStopTimes(f *zip.File) ([]rawStopTime, []Warning) {
	r, closeFn, err := openCSV(f)
	if err != nil {
		return nil, []Warning{{File: "stop_times.txt", Message: err.Error()}}
	}
	defer closeFn()

	header, err := r.Read()
	if err != nil {
		return nil, []Warning{{File: "stop_times.txt", Message: "empty file"}}
	}
	idx := makeIndex(header)

	var stopTimes []rawStopTime
	var warnings []Warning
	line := 1
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{File: "stop_times.txt", Line: line, Message: err.Error()})
			continue
		}
		seq, err := strconv.Atoi(getField(record, idx, "stop_sequence"))
		if err != nil {
			warnings = append(warnings, Warning{File: "stop_times.txt", Line: line, Message: "invalid stop_sequence, row dropped"})
			continue
		}
		pickup, _ := strconv.Atoi(getField(record, idx, "pickup_type"))
		dropoff, _ := strconv.Atoi(getField(record, idx, "drop_off_type"))
		stopTimes = append(stopTimes, rawStopTime{
			TripID:        getField(record, idx, "trip_id"),
			StopID:        getField(record, idx, "stop_id"),
			StopSequence:  seq,
			ArrivalTime:   getField(record, idx, "arrival_time"),
			DepartureTime: getField(record, idx, "departure_time"),
			PickupType:    pickup,
			DropOffType:   dropoff,
		})
	}
	return stopTimes, warnings
}

func parseCalendar(f *zip.File) ([]rawCalendar, []Warning) {
	r, closeFn, err := openCSV(f)
	if err != nil {
		return nil, []Warning{{File: "calendar.txt", Message: err.Error()}}
	}
	defer closeFn()

	header, err := r.Read()
	if err != nil {
		return nil, []Warning{{File: "calendar.txt", Message: "empty file"}}
	}
	idx := makeIndex(header)

	dayCols := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

	var out []rawCalendar
	var warnings []Warning
	line := 1
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{File: "calendar.txt", Line: line, Message: err.Error()})
			continue
		}
		var weekdays [7]bool
		for i, col := range dayCols {
			weekdays[i] = getField(record, idx, col) == "1"
		}
		out = append(out, rawCalendar{
			ServiceID: getField(record, idx, "service_id"),
			Weekdays:  weekdays,
			StartDate: getField(record, idx, "start_date"),
			EndDate:   getField(record, idx, "end_date"),
		})
	}
	return out, warnings
}

func parseCalendarDates(f *zip.File) ([]rawCalendarDate, []Warning) {
	r, closeFn, err := openCSV(f)
	if err != nil {
		return nil, []Warning{{File: "calendar_dates.txt", Message: err.Error()}}
	}
	defer closeFn()

	header, err := r.Read()
	if err != nil {
		return nil, []Warning{{File: "calendar_dates.txt", Message: "empty file"}}
	}
	idx := makeIndex(header)

	var out []rawCalendarDate
	var warnings []Warning
	line := 1
	for {
		record, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, Warning{File: "calendar_dates.txt", Line: line, Message: err.Error()})
			continue
		}
		exceptionType, err := strconv.Atoi(getField(record, idx, "exception_type"))
		if err != nil {
			warnings = append(warnings, Warning{File: "calendar_dates.txt", Line: line, Message: "invalid exception_type, row dropped"})
			continue
		}
		out = append(out, rawCalendarDate{
			ServiceID:     getField(record, idx, "service_id"),
			Date:          getField(record, idx, "date"),
			ExceptionType: exceptionType,
		})
	}
	return out, warnings
}
