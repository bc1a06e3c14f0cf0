// Package access resolves the candidate access and egress stops for a
// query origin/destination coordinate, either by straight-line haversine
// distance or, when a street graph is available, by routing a short
// list of nearby candidates through the walking router in parallel
// (§4.6).
package access

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/twtwtiwa05/korean-raptor/internal/geo"
	"github.com/twtwtiwa05/korean-raptor/internal/raptor"
	"github.com/twtwtiwa05/korean-raptor/internal/streetgraph"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
	"github.com/twtwtiwa05/korean-raptor/internal/walkrouter"
)

// candidateFanout is the number of nearest-by-haversine stops considered
// before routing, per the K=30 pre-filter (§4.6).
const candidateFanout = 30

// perTaskTimeout bounds a single A* routing task inside the parallel
// egress/access fan-out.
const perTaskTimeout = 2 * time.Second

// haversineFallbackFactor is applied to the straight-line distance when
// a walking route cannot be found or no street graph is configured.
const haversineFallbackFactor = 1.3

// Resolver turns a query coordinate into access or egress records
// against the transit stop set. It holds references to immutable,
// shared state only and is safe for concurrent use.
type Resolver struct {
	data   *transit.Data
	graph  *streetgraph.Graph // nil means haversine-only mode
	router *walkrouter.Router

	maxWalkMeters float64
	walkSpeedMPS  float64
	maxStops      int

	cache *WalkCache // nil disables caching
}

// WithCache installs an LRU cache for routed node-pair results.
func (r *Resolver) WithCache(cache *WalkCache) *Resolver {
	r2 := *r
	r2.cache = cache
	return &r2
}

// NewResolver builds a haversine-only resolver.
func NewResolver(data *transit.Data, maxWalkMeters, walkSpeedMPS float64, maxStops int) *Resolver {
	return &Resolver{data: data, maxWalkMeters: maxWalkMeters, walkSpeedMPS: walkSpeedMPS, maxStops: maxStops}
}

// WithStreetGraph upgrades the resolver to route candidates through the
// walking router instead of relying purely on haversine distance.
func (r *Resolver) WithStreetGraph(graph *streetgraph.Graph) *Resolver {
	r2 := *r
	r2.graph = graph
	r2.router = walkrouter.NewRouter(graph)
	return &r2
}

// candidate is an intermediate haversine-ranked stop before routing.
type candidate struct {
	stop     transit.StopIndex
	straight float64
}

// Resolve returns up to maxStops access or egress records for the query
// point (lat, lon), each no farther than maxWalkMeters by the estimate
// used (haversine or routed distance).
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) []raptor.AccessEgress {
	candidates := r.nearestCandidates(lat, lon)
	if len(candidates) == 0 {
		return nil
	}

	var records []raptor.AccessEgress
	if r.graph == nil {
		records = r.resolveHaversine(candidates)
	} else {
		records = r.resolveRouted(ctx, lat, lon, candidates)
	}

	kept := records[:0]
	for _, rec := range records {
		if rec.DistanceMeters <= r.maxWalkMeters {
			kept = append(kept, rec)
		}
	}
	records = kept

	sort.Slice(records, func(i, j int) bool { return records[i].DurationSec < records[j].DurationSec })
	if len(records) > r.maxStops {
		records = records[:r.maxStops]
	}
	return records
}

// nearestCandidates returns the candidateFanout closest stops to (lat,
// lon) by straight-line distance, pre-filtered to maxWalkMeters.
func (r *Resolver) nearestCandidates(lat, lon float64) []candidate {
	n := r.data.NumStops()
	all := make([]candidate, 0, n)
	for i := 0; i < n; i++ {
		s := transit.StopIndex(i)
		d := geo.Haversine(lat, lon, r.data.StopLat(s), r.data.StopLon(s))
		if d <= r.maxWalkMeters {
			all = append(all, candidate{stop: s, straight: d})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].straight < all[j].straight })
	if len(all) > candidateFanout {
		all = all[:candidateFanout]
	}
	return all
}

func (r *Resolver) resolveHaversine(candidates []candidate) []raptor.AccessEgress {
	out := make([]raptor.AccessEgress, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, raptor.AccessEgress{
			Stop:           c.stop,
			DurationSec:    int32(geo.SecondsForDistance(c.straight, r.walkSpeedMPS)),
			DistanceMeters: c.straight,
		})
	}
	return out
}

// resolveRouted routes (lat, lon) against the street graph's nearest
// node, then runs one walking search per candidate stop concurrently,
// at most runtime.GOMAXPROCS(0) at a time, each capped at
// perTaskTimeout. A candidate whose search fails or times out falls back
// to the haversine estimate scaled by haversineFallbackFactor rather
// than being dropped here; Resolve then drops any record, routed or
// fallback, longer than maxWalkMeters (§4.6). Each stop's nearest
// street node is looked up at query time, not precomputed.
func (r *Resolver) resolveRouted(ctx context.Context, lat, lon float64, candidates []candidate) []raptor.AccessEgress {
	originNode := r.graph.NearestNode(lat, lon, r.maxWalkMeters)
	if originNode == nil {
		return r.resolveHaversine(candidates)
	}

	results := make([]raptor.AccessEgress, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			taskCtx, cancel := context.WithTimeout(gctx, perTaskTimeout)
			defer cancel()

			stopNode := r.graph.NearestNode(r.data.StopLat(c.stop), r.data.StopLon(c.stop), r.maxWalkMeters)
			results[i] = r.routeOrFallback(taskCtx, originNode.ID, stopNode, c)
			return nil
		})
	}
	_ = g.Wait() // tasks never return an error; fallbacks absorb every failure mode
	return results
}

func (r *Resolver) routeOrFallback(ctx context.Context, fromNodeID int64, stopNode *streetgraph.Node, c candidate) raptor.AccessEgress {
	if stopNode == nil {
		return r.fallback(c)
	}

	done := make(chan walkrouter.Result, 1)
	go func() {
		if r.cache != nil {
			done <- r.cache.Get(r.router, fromNodeID, stopNode.ID)
			return
		}
		done <- r.router.Find(fromNodeID, stopNode.ID)
	}()

	select {
	case <-ctx.Done():
		return r.fallback(c)
	case res := <-done:
		if !res.Found {
			return r.fallback(c)
		}
		return raptor.AccessEgress{
			Stop:           c.stop,
			DurationSec:    int32(geo.SecondsForDistance(res.DistanceMeters, r.walkSpeedMPS)),
			DistanceMeters: res.DistanceMeters,
		}
	}
}

func (r *Resolver) fallback(c candidate) raptor.AccessEgress {
	d := c.straight * haversineFallbackFactor
	return raptor.AccessEgress{
		Stop:           c.stop,
		DurationSec:    int32(geo.SecondsForDistance(d, r.walkSpeedMPS)),
		DistanceMeters: d,
	}
}
