package access

import (
	"context"
	"testing"

	"github.com/twtwtiwa05/korean-raptor/internal/streetgraph"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
	"github.com/twtwtiwa05/korean-raptor/internal/walkrouter"
)

func buildStops() *transit.Data {
	d := transit.NewData(3)
	d.SetStop(0, "near", 37.5001, 127.0000)
	d.SetStop(1, "mid", 37.5020, 127.0000)
	d.SetStop(2, "far", 38.0000, 128.0000)
	return d
}

func TestResolveHaversineOrdersByDistance(t *testing.T) {
	d := buildStops()
	r := NewResolver(d, 1000, 1.2, 5)
	recs := r.Resolve(context.Background(), 37.5000, 127.0000)
	if len(recs) != 2 {
		t.Fatalf("expected 2 candidates within 1000m, got %d", len(recs))
	}
	if recs[0].Stop != 0 {
		t.Errorf("closest stop should be index 0, got %d", recs[0].Stop)
	}
}

func TestResolveHaversineRespectsMaxStops(t *testing.T) {
	d := transit.NewData(10)
	for i := 0; i < 10; i++ {
		d.SetStop(transit.StopIndex(i), "s", 37.5+float64(i)*0.0005, 127.0)
	}
	r := NewResolver(d, 5000, 1.2, 3)
	recs := r.Resolve(context.Background(), 37.5, 127.0)
	if len(recs) != 3 {
		t.Fatalf("expected maxStops=3 candidates, got %d", len(recs))
	}
}

func TestResolveRoutedFallsBackWhenGraphEmpty(t *testing.T) {
	d := buildStops()
	g := streetgraph.NewGraph()
	g.Freeze()
	r := NewResolver(d, 1000, 1.2, 5).WithStreetGraph(g)
	recs := r.Resolve(context.Background(), 37.5000, 127.0000)
	if len(recs) != 2 {
		t.Fatalf("expected haversine fallback for both nearby stops, got %d", len(recs))
	}
}

func TestWalkCacheReusesResult(t *testing.T) {
	g := streetgraph.NewGraph()
	g.AddNode(1, 37.50, 127.00)
	g.AddNode(2, 37.501, 127.00)
	g.AddEdge(1, 2, streetgraph.ClassFootway)
	g.AddEdge(2, 1, streetgraph.ClassFootway)
	g.Freeze()

	router := walkrouter.NewRouter(g)
	cache := NewWalkCache(10)

	first := cache.Get(router, 1, 2)
	if !first.Found {
		t.Fatal("expected a path")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
	second := cache.Get(router, 1, 2)
	if second.DistanceMeters != first.DistanceMeters {
		t.Errorf("cached distance mismatch: %f vs %f", second.DistanceMeters, first.DistanceMeters)
	}
}
