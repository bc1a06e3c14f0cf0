// Package raptor implements the round-based, multi-criteria-free
// earliest-arrival transit search (§4.5). A single Run call walks at
// most R = 1 + numberOfAdditionalTransfers rounds over marked stops,
// alternating a pattern sweep (phase A) with a foot-transfer sweep
// (phase B), and returns per-round labels with enough back-pointer
// information for path reconstruction (C7).
package raptor

import (
	"context"
	"sort"

	"github.com/twtwtiwa05/korean-raptor/internal/transit"
	"github.com/twtwtiwa05/korean-raptor/internal/tripsearch"
)

// AccessEgress is a single candidate access or egress walking leg,
// produced by the access/egress resolver (C4).
type AccessEgress struct {
	Stop           transit.StopIndex
	DurationSec    int32
	DistanceMeters float64
}

// BackPointerKind distinguishes the three ways a label can have been set.
type BackPointerKind uint8

const (
	BackAccess BackPointerKind = iota
	BackBoard
	BackTransfer
)

// BackPointer carries enough information to reconstruct the leg that
// set a label, per §4.5.
type BackPointer struct {
	Kind BackPointerKind

	// BackAccess
	AccessDurationSec    int32
	AccessDistanceMeters float64

	// BackBoard
	Pattern   transit.PatternIndex
	Trip      transit.TripIndex
	BoardStop transit.StopIndex
	BoardPos  int
	AlightPos int

	// BackTransfer
	FromStop       transit.StopIndex
	WalkSeconds    int32
	WalkMeters     float64
}

// Labels is the per-query state produced by Run: round-indexed arrival
// times and back-pointers for every stop. It is allocated fresh per
// query and never shared (§5).
type Labels struct {
	Rounds       int // R, the number of rounds actually allocated (= 1 + numberOfAdditionalTransfers)
	RoundsRun    int // number of rounds actually executed before termination
	BestArrival  []int32
	RoundArrival [][]int32
	backPtr      [][]BackPointer
	hasBackPtr   [][]bool
	TimedOut     bool
}

// BackPointerAt returns the back-pointer recorded for (round, stop), if any.
func (l *Labels) BackPointerAt(round int, s transit.StopIndex) (BackPointer, bool) {
	if round < 0 || round >= len(l.hasBackPtr) {
		return BackPointer{}, false
	}
	if !l.hasBackPtr[round][s] {
		return BackPointer{}, false
	}
	return l.backPtr[round][s], true
}

// Infinity marks a stop that has not been reached by any round.
const Infinity = int32(1) << 30

const infinity = Infinity

func newLabels(nStops, rounds int) *Labels {
	l := &Labels{
		Rounds:       rounds,
		BestArrival:  make([]int32, nStops),
		RoundArrival: make([][]int32, rounds+1),
		backPtr:      make([][]BackPointer, rounds+1),
		hasBackPtr:   make([][]bool, rounds+1),
	}
	for s := 0; s < nStops; s++ {
		l.BestArrival[s] = infinity
	}
	for k := 0; k <= rounds; k++ {
		l.RoundArrival[k] = make([]int32, nStops)
		for s := 0; s < nStops; s++ {
			l.RoundArrival[k][s] = infinity
		}
		l.backPtr[k] = make([]BackPointer, nStops)
		l.hasBackPtr[k] = make([]bool, nStops)
	}
	return l
}

// Run executes the Raptor search. numberOfAdditionalTransfers bounds the
// number of rides to 1+numberOfAdditionalTransfers (§4.5). The deadline
// is checked once between rounds; on expiry the best complete result so
// far is returned with TimedOut set (§5, §7).
func Run(ctx context.Context, data *transit.Data, access, egress []AccessEgress, t0 int32, numberOfAdditionalTransfers int) *Labels {
	nStops := data.NumStops()
	rounds := 1 + numberOfAdditionalTransfers
	labels := newLabels(nStops, rounds)

	marked := make([]bool, nStops)
	anyMarked := false
	for _, a := range access {
		arrival := t0 + a.DurationSec
		if arrival < labels.RoundArrival[0][a.Stop] {
			labels.RoundArrival[0][a.Stop] = arrival
			if arrival < labels.BestArrival[a.Stop] {
				labels.BestArrival[a.Stop] = arrival
			}
			labels.backPtr[0][a.Stop] = BackPointer{Kind: BackAccess, AccessDurationSec: a.DurationSec, AccessDistanceMeters: a.DistanceMeters}
			labels.hasBackPtr[0][a.Stop] = true
			marked[a.Stop] = true
			anyMarked = true
		}
	}

	egressLowerBound := make(map[transit.StopIndex]int32, len(egress))
	for _, e := range egress {
		if prev, ok := egressLowerBound[e.Stop]; !ok || e.DurationSec < prev {
			egressLowerBound[e.Stop] = e.DurationSec
		}
	}
	bestAtEgress := infinity
	updateBestAtEgress := func() {
		for _, e := range egress {
			if labels.BestArrival[e.Stop] >= infinity {
				continue
			}
			total := labels.BestArrival[e.Stop] + e.DurationSec
			if total < bestAtEgress {
				bestAtEgress = total
			}
		}
	}
	updateBestAtEgress()

	slack := data.Slack()

	for k := 1; k <= rounds; k++ {
		select {
		case <-ctx.Done():
			labels.TimedOut = true
			return labels
		default:
		}

		if !anyMarked {
			break
		}
		labels.RoundsRun = k

		copy(labels.RoundArrival[k], labels.RoundArrival[k-1])

		improvedInPhaseA := make([]bool, nStops)
		nextMarked := make([]bool, nStops)

		// Phase A: build Q = {(pattern, earliest position)}.
		earliestPos := make(map[transit.PatternIndex]int)
		for s := 0; s < nStops; s++ {
			if !marked[s] {
				continue
			}
			for _, p := range data.PatternsAtStop(transit.StopIndex(s)) {
				pos := positionOf(data.Pattern(p), transit.StopIndex(s))
				if pos < 0 {
					continue
				}
				if existing, ok := earliestPos[p]; !ok || pos < existing {
					earliestPos[p] = pos
				}
			}
		}

		patterns := make([]transit.PatternIndex, 0, len(earliestPos))
		for p := range earliestPos {
			patterns = append(patterns, p)
		}
		sort.Slice(patterns, func(i, j int) bool { return patterns[i] < patterns[j] })

		for _, p := range patterns {
			scanPattern(data, p, earliestPos[p], k, labels, slack, improvedInPhaseA, nextMarked, &bestAtEgress, egressLowerBound)
		}

		// Phase B: apply foot transfers from stops improved in this round's phase A.
		for s := 0; s < nStops; s++ {
			if !improvedInPhaseA[s] {
				continue
			}
			stop := transit.StopIndex(s)
			for _, tr := range data.TransfersFrom(stop) {
				a := labels.RoundArrival[k][stop] + int32(tr.DurationSec) + slack.Transfer()
				if bound, ok := egressLowerBound[tr.ToStop]; ok && a+bound > bestAtEgress {
					continue
				}
				if a < labels.BestArrival[tr.ToStop] && a < labels.RoundArrival[k][tr.ToStop] {
					labels.RoundArrival[k][tr.ToStop] = a
					if a < labels.BestArrival[tr.ToStop] {
						labels.BestArrival[tr.ToStop] = a
					}
					labels.backPtr[k][tr.ToStop] = BackPointer{Kind: BackTransfer, FromStop: stop, WalkSeconds: tr.DurationSec, WalkMeters: tr.DistanceMeters}
					labels.hasBackPtr[k][tr.ToStop] = true
					nextMarked[tr.ToStop] = true
				}
			}
		}

		updateBestAtEgress()

		marked = nextMarked
		anyMarked = false
		for _, m := range marked {
			if m {
				anyMarked = true
				break
			}
		}
	}

	return labels
}

// scanPattern walks a single pattern from earliest position i0 onward
// for round k, alighting and (re)boarding per §4.5 phase A.
func scanPattern(
	data *transit.Data,
	p transit.PatternIndex,
	i0 int,
	k int,
	labels *Labels,
	slack transit.SlackTable,
	improvedInPhaseA []bool,
	nextMarked []bool,
	bestAtEgress *int32,
	egressLowerBound map[transit.StopIndex]int32,
) {
	pattern := data.Pattern(p)
	tt := data.Timetable(p)
	searcher := tripsearch.NewSearcher(tt)

	currentTrip := tripsearch.NoTripFound
	boardStop := transit.StopIndex(-1)
	boardPos := -1

	for i := i0; i < pattern.NumStops(); i++ {
		s := pattern.StopAt(i)

		if currentTrip >= 0 && pattern.CanAlightAt(i) {
			trip := tt.Trip(int(currentTrip))
			a := trip.Arrival(i) + slack.Alight(pattern.SlackIndex())
			prune := false
			if bound, ok := egressLowerBound[s]; ok && a+bound > *bestAtEgress {
				prune = true
			}
			if !prune && a < labels.BestArrival[s] && a < labels.RoundArrival[k][s] {
				labels.RoundArrival[k][s] = a
				if a < labels.BestArrival[s] {
					labels.BestArrival[s] = a
				}
				labels.backPtr[k][s] = BackPointer{
					Kind: BackBoard, Pattern: p, Trip: currentTrip,
					BoardStop: boardStop, BoardPos: boardPos, AlightPos: i,
				}
				labels.hasBackPtr[k][s] = true
				improvedInPhaseA[s] = true
				nextMarked[s] = true
			}
		}

		if pattern.CanBoardAt(i) {
			prevArrival := labels.RoundArrival[k-1][s]
			if prevArrival < infinity {
				tEB := prevArrival + slack.Board(pattern.SlackIndex())
				limit := tripsearch.NoTripFound
				if currentTrip >= 0 {
					limit = currentTrip
				}
				res := searcher.Forward(tEB, i, limit)
				if res.Found && (currentTrip < 0 || res.TripIndex < currentTrip) {
					currentTrip = res.TripIndex
					boardStop = s
					boardPos = i
				}
			}
		}
	}
}

// positionOf returns the earliest in-pattern position of stop s, or -1.
func positionOf(p *transit.Pattern, s transit.StopIndex) int {
	for i := 0; i < p.NumStops(); i++ {
		if p.StopAt(i) == s {
			return i
		}
	}
	return -1
}
