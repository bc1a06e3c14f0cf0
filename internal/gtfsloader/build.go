package gtfsloader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

// patternKey groups trips into a maximal set sharing the same ordered
// stop sequence on the same route.
type patternKey struct {
	routeID string
	seq     string
}

type patternBuilder struct {
	routeID   string
	stopSeq   []transit.StopIndex
	routeInfo rawRoute
	canBoard  []bool
	canAlight []bool
	trips     []transit.TripSchedule
}

// Build turns a parsed RawFeed into a transit.Data, generating symmetric
// walking transfers within maxTransferDistanceMeters at the given walk
// speed. Malformed trips (unparsable times, unknown stop references) and
// patterns left with no trips after filtering are dropped with a
// Warning rather than failing the whole build (§7 error taxonomy,
// DataInvariantViolation).
func Build(feed *RawFeed, maxTransferDistanceMeters, walkSpeedMPS float64) (*transit.Data, []Warning, error) {
	if len(feed.Stops) == 0 {
		return nil, nil, fmt.Errorf("GTFS feed has no stops")
	}

	var warnings []Warning

	data := transit.NewData(len(feed.Stops))
	stopIndex := make(map[string]transit.StopIndex, len(feed.Stops))
	for i, s := range feed.Stops {
		idx := transit.StopIndex(i)
		stopIndex[s.StopID] = idx
		data.SetStop(idx, s.Name, s.Lat, s.Lon)
	}

	routeByID := make(map[string]rawRoute, len(feed.Routes))
	for _, r := range feed.Routes {
		routeByID[r.RouteID] = r
	}

	stopTimesByTrip := make(map[string][]rawStopTime)
	for _, st := range feed.StopTimes {
		stopTimesByTrip[st.TripID] = append(stopTimesByTrip[st.TripID], st)
	}
	for tripID := range stopTimesByTrip {
		group := stopTimesByTrip[tripID]
		sort.Slice(group, func(i, j int) bool { return group[i].StopSequence < group[j].StopSequence })
		stopTimesByTrip[tripID] = group
	}

	builders := make(map[patternKey]*patternBuilder)
	var order []patternKey

	for _, trip := range feed.Trips {
		stopTimes := stopTimesByTrip[trip.TripID]
		if len(stopTimes) < 2 {
			warnings = append(warnings, Warning{File: "trips.txt", Message: fmt.Sprintf("trip %s has fewer than 2 stop_times, dropped", trip.TripID)})
			continue
		}

		route, ok := routeByID[trip.RouteID]
		if !ok {
			warnings = append(warnings, Warning{File: "trips.txt", Message: fmt.Sprintf("trip %s references unknown route %s, dropped", trip.TripID, trip.RouteID)})
			continue
		}

		stopSeq := make([]transit.StopIndex, len(stopTimes))
		arrivals := make([]int32, len(stopTimes))
		departures := make([]int32, len(stopTimes))
		var canBoard, canAlight []bool
		hasRestriction := false
		ok = true
		for i, st := range stopTimes {
			s, found := stopIndex[st.StopID]
			if !found {
				warnings = append(warnings, Warning{File: "stop_times.txt", Message: fmt.Sprintf("trip %s references unknown stop %s, trip dropped", trip.TripID, st.StopID)})
				ok = false
				break
			}
			arr, err := parseGTFSTime(st.ArrivalTime)
			if err != nil {
				warnings = append(warnings, Warning{File: "stop_times.txt", Message: fmt.Sprintf("trip %s: %v, trip dropped", trip.TripID, err)})
				ok = false
				break
			}
			dep, err := parseGTFSTime(st.DepartureTime)
			if err != nil {
				warnings = append(warnings, Warning{File: "stop_times.txt", Message: fmt.Sprintf("trip %s: %v, trip dropped", trip.TripID, err)})
				ok = false
				break
			}
			if arr > dep {
				warnings = append(warnings, Warning{File: "stop_times.txt", Message: fmt.Sprintf("trip %s: arrival after departure at stop_sequence %d, trip dropped", trip.TripID, st.StopSequence)})
				ok = false
				break
			}
			if i > 0 && departures[i-1] > arr {
				warnings = append(warnings, Warning{File: "stop_times.txt", Message: fmt.Sprintf("trip %s: non-monotonic stop_times at stop_sequence %d, trip dropped", trip.TripID, st.StopSequence)})
				ok = false
				break
			}

			stopSeq[i] = s
			arrivals[i] = arr
			departures[i] = dep

			if canBoard == nil {
				canBoard = make([]bool, len(stopTimes))
				canAlight = make([]bool, len(stopTimes))
				for j := range canBoard {
					canBoard[j] = j < len(stopTimes)-1
					canAlight[j] = j > 0
				}
			}
			if st.PickupType == 1 {
				canBoard[i] = false
				hasRestriction = true
			}
			if st.DropOffType == 1 {
				canAlight[i] = false
				hasRestriction = true
			}
		}
		if !ok {
			continue
		}

		key := patternKey{routeID: trip.RouteID, seq: stopSeqSignature(stopSeq)}
		b, exists := builders[key]
		if !exists {
			b = &patternBuilder{routeID: trip.RouteID, stopSeq: stopSeq, routeInfo: route}
			builders[key] = b
			order = append(order, key)
		}
		if hasRestriction {
			b.canBoard, b.canAlight = canBoard, canAlight
		}
		b.trips = append(b.trips, transit.TripSchedule{
			ArrivalSec:   arrivals,
			DepartureSec: departures,
			DisplayID:    trip.TripID,
		})
	}

	for _, key := range order {
		b := builders[key]
		p := transit.Pattern{
			StopSequence:   b.stopSeq,
			SlackIdx:       transit.ModeForRouteType(b.routeInfo.RouteType),
			DebugTag:       key.routeID,
			RouteID:        b.routeInfo.RouteID,
			RouteShortName: b.routeInfo.ShortName,
			RouteLongName:  b.routeInfo.LongName,
			RouteType:      b.routeInfo.RouteType,
		}
		if b.canBoard != nil {
			p.SetBoardAlightFlags(b.canBoard, b.canAlight)
		}
		if _, err := data.AddPattern(p, transit.Timetable{Trips: b.trips}); err != nil {
			warnings = append(warnings, Warning{File: "trips.txt", Message: fmt.Sprintf("pattern %s/%s: %v, pattern dropped", key.routeID, key.seq, err)})
		}
	}

	data.BuildTransfersFromCoordinates(maxTransferDistanceMeters, walkSpeedMPS)

	return data, warnings, nil
}

func stopSeqSignature(seq []transit.StopIndex) string {
	parts := make([]string, len(seq))
	for i, s := range seq {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ",")
}
