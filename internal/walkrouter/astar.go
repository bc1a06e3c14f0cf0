// Package walkrouter implements A* shortest-path search over a street
// graph, scored with per-query side maps so the shared graph never needs
// resetting between calls (§4.2, §9 "mutable per-search state").
package walkrouter

import (
	"container/heap"

	"github.com/twtwtiwa05/korean-raptor/internal/geo"
	"github.com/twtwtiwa05/korean-raptor/internal/streetgraph"
)

// Default tuning parameters (§4.2, §6 configuration keys).
const (
	DefaultMaxIterations     = 15000
	DefaultMaxSearchDistance = 500.0
)

// Router runs A* searches against a single, shared, immutable street
// graph. A Router holds no mutable state of its own; every call to Find
// allocates its own scoring maps, so a single Router is safe for
// concurrent use.
type Router struct {
	graph             *streetgraph.Graph
	maxIterations     int
	maxSearchDistance float64
}

// NewRouter returns a Router bound to graph with the engine's default
// iteration and distance caps.
func NewRouter(graph *streetgraph.Graph) *Router {
	return &Router{
		graph:             graph,
		maxIterations:     DefaultMaxIterations,
		maxSearchDistance: DefaultMaxSearchDistance,
	}
}

// WithLimits overrides the iteration and distance caps. The access
// resolver builds its router with NewRouter and never calls WithLimits,
// so the A_STAR_MAX_ITERATIONS / A_STAR_MAX_DISTANCE_METERS values read
// by internal/config do not reach the router; it runs with the defaults
// above.
func (r *Router) WithLimits(maxIterations int, maxSearchDistance float64) *Router {
	return &Router{graph: r.graph, maxIterations: maxIterations, maxSearchDistance: maxSearchDistance}
}

// Result is the outcome of a walking search between two street nodes.
type Result struct {
	Found          bool
	DistanceMeters float64
	Nodes          []int64
}

type openEntry struct {
	nodeID int64
	fScore float64
}

type openHeap []openEntry

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].fScore < h[j].fScore }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x interface{}) { *h = append(*h, x.(openEntry)) }
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Find runs A* from node A to node B. It returns Result{Found: false}
// when the open set empties, when the number of popped nodes exceeds
// maxIterations, or when the current node's g-score exceeds
// maxSearchDistance — the caller is expected to fall back to
// haversine(A, B) * 1.3 in all of these cases (§4.2).
func (r *Router) Find(fromID, toID int64) Result {
	if fromID == toID {
		return Result{Found: true, DistanceMeters: 0, Nodes: []int64{fromID}}
	}

	goal := r.graph.Node(toID)
	if goal == nil || r.graph.Node(fromID) == nil {
		return Result{Found: false}
	}

	gScore := map[int64]float64{fromID: 0}
	parent := map[int64]int64{}
	closed := map[int64]bool{}

	open := &openHeap{{nodeID: fromID, fScore: r.heuristic(fromID, toID)}}
	heap.Init(open)

	iterations := 0
	for open.Len() > 0 {
		iterations++
		if iterations > r.maxIterations {
			return Result{Found: false}
		}

		current := heap.Pop(open).(openEntry)
		if closed[current.nodeID] {
			continue
		}

		if current.nodeID == toID {
			return r.reconstruct(toID, parent, gScore[toID])
		}
		closed[current.nodeID] = true

		currentG := gScore[current.nodeID]
		if currentG > r.maxSearchDistance {
			continue
		}

		node := r.graph.Node(current.nodeID)
		if node == nil {
			continue
		}

		for _, edge := range node.Outgoing {
			if closed[edge.To] {
				continue
			}
			tentativeG := currentG + edge.LengthMeters
			if existing, ok := gScore[edge.To]; ok && tentativeG >= existing {
				continue
			}
			gScore[edge.To] = tentativeG
			parent[edge.To] = current.nodeID
			heap.Push(open, openEntry{nodeID: edge.To, fScore: tentativeG + r.heuristic(edge.To, toID)})
		}
	}

	return Result{Found: false}
}

func (r *Router) heuristic(fromID, toID int64) float64 {
	from := r.graph.Node(fromID)
	to := r.graph.Node(toID)
	if from == nil || to == nil {
		return 0
	}
	return geo.Haversine(from.Lat(), from.Lon(), to.Lat(), to.Lon())
}

func (r *Router) reconstruct(goalID int64, parent map[int64]int64, distance float64) Result {
	path := []int64{goalID}
	current := goalID
	for {
		p, ok := parent[current]
		if !ok {
			break
		}
		path = append(path, p)
		current = p
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return Result{Found: true, DistanceMeters: distance, Nodes: path}
}
