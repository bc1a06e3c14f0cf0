// Package itinerary turns a Raptor back-pointer chain into an ordered
// list of legs a caller can render: one access walk, alternating
// ride/transfer legs, and one egress walk (§4.7, C7).
package itinerary

import (
	"github.com/twtwtiwa05/korean-raptor/internal/raptor"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

// LegKind distinguishes the three leg shapes an itinerary can contain.
type LegKind string

const (
	LegAccessWalk  LegKind = "access_walk"
	LegRide        LegKind = "ride"
	LegTransfer    LegKind = "transfer_walk"
	LegEgressWalk  LegKind = "egress_walk"
)

// Leg is a single, directly renderable segment of an itinerary.
type Leg struct {
	Kind LegKind

	FromStop transit.StopIndex
	ToStop   transit.StopIndex

	DepartureSec int32
	ArrivalSec   int32

	// Ride-only fields.
	RouteID        string
	RouteShortName string
	TripDisplayID  string
	BoardPos       int
	AlightPos      int

	// Walk-only fields (access, transfer, egress).
	DistanceMeters float64
}

// Itinerary is a complete door-to-door plan: an access walk, zero or
// more ride/transfer legs, and an egress walk.
type Itinerary struct {
	Legs           []Leg
	DepartureSec   int32
	ArrivalSec     int32
	NumberOfRides  int
}

// Reconstruct walks the back-pointer chain ending at egress stop s in
// round k and returns the itinerary, including the trailing egress walk
// described by eg. It returns false if no back-pointer chain exists at
// (k, s).
func Reconstruct(data *transit.Data, labels *raptor.Labels, k int, s transit.StopIndex, eg raptor.AccessEgress, originDepartureSec int32) (Itinerary, bool) {
	type step struct {
		round int
		stop  transit.StopIndex
		bp    raptor.BackPointer
	}

	var chain []step
	round, stop := k, s
	for {
		bp, ok := labels.BackPointerAt(round, stop)
		if !ok {
			return Itinerary{}, false
		}
		chain = append(chain, step{round: round, stop: stop, bp: bp})
		if bp.Kind == raptor.BackAccess {
			break
		}
		switch bp.Kind {
		case raptor.BackBoard:
			stop = bp.BoardStop
			round--
		case raptor.BackTransfer:
			stop = bp.FromStop
			// transfers happen within the same round, following a board
		}
	}

	// reverse the chain so it reads origin -> destination
	reversed := make([]step, len(chain))
	for i, c := range chain {
		reversed[len(chain)-1-i] = c
	}

	slack := data.Slack()
	legs := make([]Leg, 0, len(reversed)+1)
	numRides := 0

	for _, c := range reversed {
		switch c.bp.Kind {
		case raptor.BackAccess:
			legs = append(legs, Leg{
				Kind:           LegAccessWalk,
				FromStop:       -1,
				ToStop:         c.stop,
				DepartureSec:   originDepartureSec,
				ArrivalSec:     originDepartureSec + c.bp.AccessDurationSec,
				DistanceMeters: c.bp.AccessDistanceMeters,
			})
		case raptor.BackTransfer:
			prevArrival := legs[len(legs)-1].ArrivalSec
			legs = append(legs, Leg{
				Kind:           LegTransfer,
				FromStop:       c.bp.FromStop,
				ToStop:         c.stop,
				DepartureSec:   prevArrival,
				ArrivalSec:     prevArrival + c.bp.WalkSeconds + slack.Transfer(),
				DistanceMeters: c.bp.WalkMeters,
			})
		case raptor.BackBoard:
			pattern := data.Pattern(c.bp.Pattern)
			tt := data.Timetable(c.bp.Pattern)
			trip := tt.Trip(int(c.bp.Trip))
			legs = append(legs, Leg{
				Kind:           LegRide,
				FromStop:       c.bp.BoardStop,
				ToStop:         c.stop,
				DepartureSec:   trip.Departure(c.bp.BoardPos),
				ArrivalSec:     trip.Arrival(c.bp.AlightPos) + slack.Alight(pattern.SlackIndex()),
				RouteID:        pattern.RouteID,
				RouteShortName: pattern.RouteShortName,
				TripDisplayID:  trip.DisplayID,
				BoardPos:       c.bp.BoardPos,
				AlightPos:      c.bp.AlightPos,
			})
			numRides++
		}
	}

	lastArrival := legs[len(legs)-1].ArrivalSec
	legs = append(legs, Leg{
		Kind:           LegEgressWalk,
		FromStop:       s,
		ToStop:         -1,
		DepartureSec:   lastArrival,
		ArrivalSec:     lastArrival + eg.DurationSec,
		DistanceMeters: eg.DistanceMeters,
	})

	return Itinerary{
		Legs:          legs,
		DepartureSec:  legs[0].DepartureSec,
		ArrivalSec:    legs[len(legs)-1].ArrivalSec,
		NumberOfRides: numRides,
	}, true
}

// FirstRideDepartureSec returns the departure time of the first ride
// leg, distinct from DepartureSec (which is the access walk's start and
// always equals the query's requested departure time). Returns false
// for an itinerary with no ride legs.
func (it Itinerary) FirstRideDepartureSec() (int32, bool) {
	for _, leg := range it.Legs {
		if leg.Kind == LegRide {
			return leg.DepartureSec, true
		}
	}
	return 0, false
}
