// Package engine exposes the door-to-door query surface: given an
// origin/destination coordinate pair (or a pair of stops) and a
// departure time, it wires the access/egress resolver, the Raptor core
// and path reconstruction together and returns ranked itineraries
// (§4.7, C10).
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/twtwtiwa05/korean-raptor/internal/access"
	"github.com/twtwtiwa05/korean-raptor/internal/config"
	"github.com/twtwtiwa05/korean-raptor/internal/itinerary"
	"github.com/twtwtiwa05/korean-raptor/internal/raptor"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

// Diagnostic distinguishes the reasons a query can come back with no
// (or a degraded) result. A routing failure is not a server error
// (§7): NoAccess/NoEgress/NoPath/Timeout are all reported alongside the
// query's itineraries, never as a Go error.
type Diagnostic string

const (
	DiagnosticOK       Diagnostic = ""
	DiagnosticNoAccess Diagnostic = "NoAccess"
	DiagnosticNoEgress Diagnostic = "NoEgress"
	DiagnosticNoPath   Diagnostic = "NoPath"
	DiagnosticTimeout  Diagnostic = "Timeout"
)

// Engine answers routing queries against a fixed transit data set and
// its resolver. An Engine is safe for concurrent use: transit.Data and
// the resolver hold only immutable or read-only shared state, and every
// query allocates its own Raptor labels (§5).
type Engine struct {
	data     *transit.Data
	resolver *access.Resolver
	cfg      *config.Config
}

// New builds an Engine over data, resolving access/egress with resolver
// and tuned by cfg.
func New(data *transit.Data, resolver *access.Resolver, cfg *config.Config) *Engine {
	return &Engine{data: data, resolver: resolver, cfg: cfg}
}

// Request is a door-to-door query by coordinate.
type Request struct {
	FromLat, FromLon float64
	ToLat, ToLon     float64
	DepartureSec     int32
	MaxResults       int
}

// Result carries a door-to-door query's itineraries plus a diagnostic
// explaining an empty or degraded result. Itineraries may be non-empty
// even when Diagnostic is DiagnosticTimeout — §5/§7 require returning
// the best complete result found so far on deadline expiry, not an
// empty one.
type Result struct {
	Itineraries []itinerary.Itinerary
	Diagnostic  Diagnostic
}

// Route resolves access/egress candidates for req and runs the Raptor
// search, returning up to req.MaxResults itineraries whose first ride
// departure falls within the configured search window, sorted by
// arrival time then by number of rides (§4.5 determinism, §4.7).
func (e *Engine) Route(ctx context.Context, req Request) (Result, error) {
	accessRecs := e.resolver.Resolve(ctx, req.FromLat, req.FromLon)
	if len(accessRecs) == 0 {
		return Result{Diagnostic: DiagnosticNoAccess}, nil
	}
	egressRecs := e.resolver.Resolve(ctx, req.ToLat, req.ToLon)
	if len(egressRecs) == 0 {
		return Result{Diagnostic: DiagnosticNoEgress}, nil
	}

	deadline := time.Now().Add(time.Duration(e.cfg.SearchWindowSeconds) * time.Second)
	qctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	labels := raptor.Run(qctx, e.data, accessRecs, egressRecs, req.DepartureSec, e.cfg.NumberOfAdditionalTransfers)

	windowEnd := req.DepartureSec + int32(e.cfg.SearchWindowSeconds)

	egressByStop := make(map[transit.StopIndex]raptor.AccessEgress, len(egressRecs))
	for _, eg := range egressRecs {
		if prev, ok := egressByStop[eg.Stop]; !ok || eg.DurationSec < prev.DurationSec {
			egressByStop[eg.Stop] = eg
		}
	}

	var results []itinerary.Itinerary
	for stop, eg := range egressByStop {
		for k := 0; k <= labels.Rounds; k++ {
			if labels.RoundArrival[k][stop] >= raptor.Infinity {
				continue
			}
			it, ok := itinerary.Reconstruct(e.data, labels, k, stop, eg, req.DepartureSec)
			if !ok {
				continue
			}
			// Window-filter on the first ride's departure, not the
			// access walk's start (the latter always equals
			// req.DepartureSec). A walk-only itinerary has no ride
			// leg to bound and always passes.
			if firstRide, hasRide := it.FirstRideDepartureSec(); hasRide {
				if firstRide < req.DepartureSec || firstRide > windowEnd {
					continue
				}
			}
			results = append(results, it)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].ArrivalSec != results[j].ArrivalSec {
			return results[i].ArrivalSec < results[j].ArrivalSec
		}
		return results[i].NumberOfRides < results[j].NumberOfRides
	})

	results = dedupeByArrivalAndRides(results)

	if req.MaxResults > 0 && len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}

	diagnostic := DiagnosticOK
	if len(results) == 0 {
		diagnostic = DiagnosticNoPath
	}
	if labels.TimedOut {
		diagnostic = DiagnosticTimeout
	}

	return Result{Itineraries: results, Diagnostic: diagnostic}, nil
}

// StopRequest is a door-to-door query between two known stops,
// bypassing the access/egress resolver entirely.
type StopRequest struct {
	FromStop     transit.StopIndex
	ToStop       transit.StopIndex
	DepartureSec int32
}

// StopResult carries a stop-to-stop query's itinerary plus a
// diagnostic. Itinerary is the zero value unless Diagnostic is
// DiagnosticOK or DiagnosticTimeout.
type StopResult struct {
	Itinerary  itinerary.Itinerary
	Diagnostic Diagnostic
}

// RouteByStop runs the Raptor search with zero-duration access/egress at
// the given stops.
func (e *Engine) RouteByStop(ctx context.Context, req StopRequest) (StopResult, error) {
	acc := []raptor.AccessEgress{{Stop: req.FromStop, DurationSec: 0}}
	egress := []raptor.AccessEgress{{Stop: req.ToStop, DurationSec: 0}}

	deadline := time.Now().Add(time.Duration(e.cfg.SearchWindowSeconds) * time.Second)
	qctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	labels := raptor.Run(qctx, e.data, acc, egress, req.DepartureSec, e.cfg.NumberOfAdditionalTransfers)

	if labels.BestArrival[req.ToStop] >= raptor.Infinity {
		diagnostic := DiagnosticNoPath
		if labels.TimedOut {
			diagnostic = DiagnosticTimeout
		}
		return StopResult{Diagnostic: diagnostic}, nil
	}

	for k := 0; k <= labels.Rounds; k++ {
		if labels.RoundArrival[k][req.ToStop] != labels.BestArrival[req.ToStop] {
			continue
		}
		it, ok := itinerary.Reconstruct(e.data, labels, k, req.ToStop, egress[0], req.DepartureSec)
		if ok {
			diagnostic := DiagnosticOK
			if labels.TimedOut {
				diagnostic = DiagnosticTimeout
			}
			return StopResult{Itinerary: it, Diagnostic: diagnostic}, nil
		}
	}

	diagnostic := DiagnosticNoPath
	if labels.TimedOut {
		diagnostic = DiagnosticTimeout
	}
	return StopResult{Diagnostic: diagnostic}, nil
}

// dedupeByArrivalAndRides drops itineraries identical in arrival time
// and ride count to an earlier, already-kept one; results is assumed
// pre-sorted by (arrival, rides).
func dedupeByArrivalAndRides(results []itinerary.Itinerary) []itinerary.Itinerary {
	out := make([]itinerary.Itinerary, 0, len(results))
	var lastArrival int32 = -1
	lastRides := -1
	for _, it := range results {
		if it.ArrivalSec == lastArrival && it.NumberOfRides == lastRides {
			continue
		}
		out = append(out, it)
		lastArrival = it.ArrivalSec
		lastRides = it.NumberOfRides
	}
	return out
}
