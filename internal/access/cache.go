package access

import (
	"fmt"

	"github.com/bluele/gcache"

	"github.com/twtwtiwa05/korean-raptor/internal/walkrouter"
)

// DefaultCacheSize bounds the number of cached node-pair walking results.
const DefaultCacheSize = 50000

// WalkCache memoizes walkrouter.Router.Find results between street
// nodes, keyed by the ordered node pair. The same (origin-node,
// stop-node) pair recurs often across queries anchored on the same part
// of the network, so caching avoids re-running A* for it (§4.12).
type WalkCache struct {
	cache gcache.Cache
}

type nodePair struct {
	from, to int64
}

// NewWalkCache builds an LRU-backed cache with room for size entries.
func NewWalkCache(size int) *WalkCache {
	return &WalkCache{cache: gcache.New(size).LRU().Build()}
}

// Get routes fromID -> toID through router, serving a cached result
// when available.
func (c *WalkCache) Get(router *walkrouter.Router, fromID, toID int64) walkrouter.Result {
	key := nodePair{fromID, toID}
	if v, err := c.cache.Get(key); err == nil {
		return v.(walkrouter.Result)
	}
	res := router.Find(fromID, toID)
	_ = c.cache.Set(key, res)
	return res
}

// Len reports the number of cached entries, for diagnostics.
func (c *WalkCache) Len() int { return c.cache.Len(true) }

func (p nodePair) String() string { return fmt.Sprintf("%d->%d", p.from, p.to) }
