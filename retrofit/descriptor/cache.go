package descriptor

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is the process-wide, read-mostly descriptor cache:
// "writes occur at first lookup per method and must be race-safe
// (double-insert tolerated, last-write-wins)". Concurrent first-callers
// for the same method key are coalesced through a singleflight.Group so a
// method's Build logic (and any validation errors it surfaces) runs at
// most once per cache miss, even under a concurrent stampede.
type Cache struct {
	built sync.Map // map[string]*Method
	group singleflight.Group
}

// NewCache returns an empty descriptor cache.
func NewCache() *Cache {
	return &Cache{}
}

// GetOrBuild returns the cached *Method for key, building it via build on
// first use. A successful build is stored with sync.Map.Store, so a
// losing concurrent builder's result (were singleflight not coalescing
// already) would simply be overwritten by whichever completed last —
// tolerated.
func (c *Cache) GetOrBuild(key string, build func() (*Method, error)) (*Method, error) {
	if v, ok := c.built.Load(key); ok {
		return v.(*Method), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.built.Load(key); ok {
			return v.(*Method), nil
		}
		m, err := build()
		if err != nil {
			return nil, err
		}
		c.built.Store(key, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Method), nil
}
