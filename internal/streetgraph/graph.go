// Package streetgraph holds the undirected, walkable pedestrian graph
// derived from OpenStreetMap data, along with the grid-based spatial
// index used for nearest-node lookups (§4.1).
package streetgraph

import (
	"github.com/paulmach/orb"

	"github.com/twtwtiwa05/korean-raptor/internal/geo"
)

// HighwayClass identifies the OSM highway tag an edge was built from.
// It is informational — the engine itself uses a single uniform walking
// speed for distance-to-time conversion (§4.1) — but is kept so a future
// per-class speed model has somewhere to live.
type HighwayClass string

const (
	ClassFootway      HighwayClass = "footway"
	ClassPedestrian   HighwayClass = "pedestrian"
	ClassPath         HighwayClass = "path"
	ClassSteps        HighwayClass = "steps"
	ClassCycleway     HighwayClass = "cycleway"
	ClassResidential  HighwayClass = "residential"
	ClassLivingStreet HighwayClass = "living_street"
	ClassTertiary     HighwayClass = "tertiary"
	ClassSecondary    HighwayClass = "secondary"
	ClassPrimary      HighwayClass = "primary"
	ClassTrunk        HighwayClass = "trunk"
	ClassUnclassified HighwayClass = "unclassified"
	ClassService      HighwayClass = "service"
	ClassTrack        HighwayClass = "track"
)

// walkableClasses is the set of highway tags that admit a pedestrian.
var walkableClasses = map[HighwayClass]bool{
	ClassFootway: true, ClassPedestrian: true, ClassPath: true, ClassSteps: true,
	ClassCycleway: true, ClassResidential: true, ClassLivingStreet: true,
	ClassTertiary: true, ClassSecondary: true, ClassPrimary: true, ClassTrunk: true,
	ClassUnclassified: true, ClassService: true, ClassTrack: true,
}

// IsWalkable reports whether a highway class admits pedestrians (§4.1).
func IsWalkable(class string) bool { return walkableClasses[HighwayClass(class)] }

// speedMPS is the per-class informational pedestrian speed table; not
// used by the engine's distance-to-time conversion, see doc comment on
// HighwayClass.
var speedMPS = map[HighwayClass]float64{
	ClassFootway: 1.3, ClassPedestrian: 1.3, ClassPath: 1.3,
	ClassSteps:   0.6,
	ClassPrimary: 1.0, ClassTrunk: 1.0,
	ClassTertiary: 1.1, ClassSecondary: 1.1,
}

// SpeedForClass returns the informational per-class walking speed,
// defaulting to 1.2 m/s.
func SpeedForClass(class HighwayClass) float64 {
	if v, ok := speedMPS[class]; ok {
		return v
	}
	return 1.2
}

// Edge is a directed walking edge from its owning node to another node.
type Edge struct {
	To           int64
	LengthMeters float64
	Class        HighwayClass
}

// Node is a street graph vertex: a stable OSM node id, its coordinates
// and its outgoing edges.
type Node struct {
	ID       int64
	Point    orb.Point // [lon, lat]
	Outgoing []Edge
}

func (n *Node) Lat() float64 { return n.Point[1] }
func (n *Node) Lon() float64 { return n.Point[0] }

// Graph is the undirected pedestrian street graph. It is immutable
// after Freeze is called and is safe to share across concurrent
// queries (§5).
type Graph struct {
	nodes map[int64]*Node
	index *spatialIndex
}

// NewGraph returns an empty, still-mutable Graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[int64]*Node)}
}

// AddNode inserts a node if it does not already exist, otherwise it is
// a no-op. Only nodes referenced by at least one walkable way should be
// added (§4.1).
func (g *Graph) AddNode(id int64, lat, lon float64) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &Node{ID: id, Point: orb.Point{lon, lat}}
}

// AddEdge inserts a directed edge computed as the haversine length
// between the two nodes' coordinates. Both endpoints must already exist.
func (g *Graph) AddEdge(fromID, toID int64, class HighwayClass) bool {
	from, ok := g.nodes[fromID]
	if !ok {
		return false
	}
	to, ok := g.nodes[toID]
	if !ok {
		return false
	}
	length := geo.Haversine(from.Lat(), from.Lon(), to.Lat(), to.Lon())
	from.Outgoing = append(from.Outgoing, Edge{To: toID, LengthMeters: length, Class: class})
	return true
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int64) *Node { return g.nodes[id] }

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the total number of directed edges in the graph.
func (g *Graph) NumEdges() int {
	n := 0
	for _, node := range g.nodes {
		n += len(node.Outgoing)
	}
	return n
}

// Freeze builds the spatial index. Call once after all nodes and edges
// have been added; the graph is read-only from this point on.
func (g *Graph) Freeze() {
	g.index = newSpatialIndex(g.nodes)
}

// NearestNode returns the nearest node to (lat, lon) within rMeters, or
// nil if none exists in range (§4.1).
func (g *Graph) NearestNode(lat, lon, rMeters float64) *Node {
	if g.index == nil {
		g.Freeze()
	}
	return g.index.nearest(lat, lon, rMeters)
}
