// Package osmloader builds a streetgraph.Graph from an OpenStreetMap PBF
// extract. It keeps only ways tagged with a walkable highway class,
// following a two-pass design: collect the walkable ways and the node
// ids they reference, then collect coordinates for exactly those nodes
// (C9, §4.1).
package osmloader

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/twtwtiwa05/korean-raptor/internal/streetgraph"
)

// noWalkAccess values for the access/foot tags that override an
// otherwise-walkable highway class.
var noWalkAccess = map[string]bool{"no": true, "private": true}

type wayData struct {
	nodeIDs []osm.NodeID
	class   streetgraph.HighwayClass
	oneway  bool
}

// Load parses path and returns the walkable pedestrian graph, along
// with a count of ways skipped for lacking usable node coordinates.
func Load(path string) (*streetgraph.Graph, int, error) {
	ways, neededNodes, err := collectWalkableWays(path)
	if err != nil {
		return nil, 0, err
	}

	coords, err := collectNodeCoordinates(path, neededNodes)
	if err != nil {
		return nil, 0, err
	}

	graph := streetgraph.NewGraph()
	skipped := 0

	for _, way := range ways {
		nodeIDs := make([]osm.NodeID, 0, len(way.nodeIDs))
		valid := true
		for _, id := range way.nodeIDs {
			if _, ok := coords[id]; !ok {
				valid = false
				break
			}
			nodeIDs = append(nodeIDs, id)
		}
		if !valid {
			skipped++
			continue
		}

		for _, id := range nodeIDs {
			c := coords[id]
			graph.AddNode(int64(id), c.lat, c.lon)
		}
		for i := 0; i < len(nodeIDs)-1; i++ {
			from, to := int64(nodeIDs[i]), int64(nodeIDs[i+1])
			graph.AddEdge(from, to, way.class)
			if !way.oneway {
				graph.AddEdge(to, from, way.class)
			}
		}
	}

	graph.Freeze()
	return graph, skipped, nil
}

func collectWalkableWays(path string) ([]wayData, map[osm.NodeID]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening OSM extract: %w", err)
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 4)
	defer scanner.Close()

	var ways []wayData
	needed := make(map[osm.NodeID]bool)

	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		class, ok := walkableClass(way.Tags)
		if !ok {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(way.Nodes))
		for i, wn := range way.Nodes {
			nodeIDs[i] = wn.ID
			needed[wn.ID] = true
		}
		ways = append(ways, wayData{
			nodeIDs: nodeIDs,
			class:   class,
			oneway:  way.Tags.Find("oneway") == "yes",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanning ways: %w", err)
	}
	return ways, needed, nil
}

type latLon struct{ lat, lon float64 }

func collectNodeCoordinates(path string, needed map[osm.NodeID]bool) (map[osm.NodeID]latLon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OSM extract: %w", err)
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 4)
	defer scanner.Close()

	coords := make(map[osm.NodeID]latLon, len(needed))
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if needed[node.ID] {
			coords[node.ID] = latLon{lat: node.Lat, lon: node.Lon}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning nodes: %w", err)
	}
	return coords, nil
}

// walkableClass reports the highway class a way's tags resolve to, and
// whether foot traffic is permitted on it.
func walkableClass(tags osm.Tags) (streetgraph.HighwayClass, bool) {
	highway := tags.Find("highway")
	if highway == "" || !streetgraph.IsWalkable(highway) {
		return "", false
	}

	if foot := tags.Find("foot"); foot != "" && noWalkAccess[foot] {
		return "", false
	}

	if access := tags.Find("access"); access != "" && noWalkAccess[access] {
		foot := tags.Find("foot")
		if foot != "yes" && foot != "designated" {
			return "", false
		}
	}

	return streetgraph.HighwayClass(highway), true
}
