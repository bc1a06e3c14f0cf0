package walkrouter

import (
	"testing"

	"github.com/twtwtiwa05/korean-raptor/internal/geo"
	"github.com/twtwtiwa05/korean-raptor/internal/streetgraph"
)

// buildLine builds a chain of n nodes spaced ~50m apart along a meridian.
func buildLine(n int) *streetgraph.Graph {
	g := streetgraph.NewGraph()
	lat := 37.5000
	step := 50.0 / 111000.0
	for i := 0; i < n; i++ {
		g.AddNode(int64(i), lat+float64(i)*step, 127.0000)
	}
	for i := 0; i < n-1; i++ {
		g.AddEdge(int64(i), int64(i+1), streetgraph.ClassFootway)
		g.AddEdge(int64(i+1), int64(i), streetgraph.ClassFootway)
	}
	g.Freeze()
	return g
}

func TestFindSamePoint(t *testing.T) {
	g := buildLine(3)
	r := NewRouter(g)
	res := r.Find(0, 0)
	if !res.Found || res.DistanceMeters != 0 {
		t.Errorf("Find(0,0) = %+v, want Found with 0 distance", res)
	}
}

func TestFindSimpleChain(t *testing.T) {
	g := buildLine(5)
	r := NewRouter(g)
	res := r.Find(0, 4)
	if !res.Found {
		t.Fatal("expected a path along the chain")
	}
	if res.DistanceMeters < 190 || res.DistanceMeters > 210 {
		t.Errorf("distance = %f, want roughly 200m", res.DistanceMeters)
	}
	if len(res.Nodes) != 5 || res.Nodes[0] != 0 || res.Nodes[4] != 4 {
		t.Errorf("path = %v, want [0 1 2 3 4]", res.Nodes)
	}
}

func TestFindUnreachable(t *testing.T) {
	g := streetgraph.NewGraph()
	g.AddNode(1, 37.50, 127.00)
	g.AddNode(2, 37.60, 127.10)
	g.Freeze()
	r := NewRouter(g)
	res := r.Find(1, 2)
	if res.Found {
		t.Error("expected no path between disconnected nodes")
	}
}

func TestFindAbandonsAtMaxSearchDistance(t *testing.T) {
	g := buildLine(50) // ~2.45km chain
	r := NewRouter(g).WithLimits(DefaultMaxIterations, 100)
	res := r.Find(0, 49)
	if res.Found {
		t.Error("expected abandonment once g-score exceeds the distance cap")
	}
}

// TestFindNeverBeatsHaversine checks that A* never returns a path
// shorter than the straight-line distance between the endpoints.
func TestFindNeverBeatsHaversine(t *testing.T) {
	g := buildLine(10)
	r := NewRouter(g)
	res := r.Find(0, 9)
	if !res.Found {
		t.Fatal("expected a path")
	}
	h := geo.Haversine(g.Node(0).Lat(), g.Node(0).Lon(), g.Node(9).Lat(), g.Node(9).Lon())
	if res.DistanceMeters < h-1e-6 {
		t.Errorf("A* distance %f is shorter than haversine lower bound %f", res.DistanceMeters, h)
	}
}
