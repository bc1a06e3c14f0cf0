package streetgraph

import (
	"math"

	"github.com/twtwtiwa05/korean-raptor/internal/geo"
)

// cellSize is the spatial index's grid resolution, ~100m at Korean
// latitudes (§4.1).
const cellSize = 0.001

type cellKey struct {
	lat, lon int64
}

func cellFor(lat, lon float64) cellKey {
	return cellKey{int64(math.Floor(lat / cellSize)), int64(math.Floor(lon / cellSize))}
}

// spatialIndex is a hash grid mapping a ~100m x 100m cell to the nodes
// inside it, used for nearest-node queries.
type spatialIndex struct {
	cells map[cellKey][]*Node
}

func newSpatialIndex(nodes map[int64]*Node) *spatialIndex {
	idx := &spatialIndex{cells: make(map[cellKey][]*Node)}
	for _, n := range nodes {
		k := cellFor(n.Lat(), n.Lon())
		idx.cells[k] = append(idx.cells[k], n)
	}
	return idx
}

// nearest scans every cell within the radius derived from rMeters and
// returns the closest node within rMeters, or nil.
func (idx *spatialIndex) nearest(lat, lon, rMeters float64) *Node {
	cellRadius := int64(math.Ceil(rMeters / 111000.0 / cellSize))
	center := cellFor(lat, lon)

	var best *Node
	bestDist := math.MaxFloat64

	for dLat := -cellRadius; dLat <= cellRadius; dLat++ {
		for dLon := -cellRadius; dLon <= cellRadius; dLon++ {
			for _, n := range idx.cells[cellKey{center.lat + dLat, center.lon + dLon}] {
				d := geo.Haversine(lat, lon, n.Lat(), n.Lon())
				if d <= rMeters && d < bestDist {
					bestDist = d
					best = n
				}
			}
		}
	}
	return best
}
