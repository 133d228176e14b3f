package reference

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CatalogCache keeps loaded catalogs keyed by their reference paths, so a
// batch run reads the reference files once.
type CatalogCache struct {
	cache *gocache.Cache
}

// NewCatalogCache creates a cache. A ttl of 0 keeps catalogs for the life of
// the process.
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		return &CatalogCache{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &CatalogCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the catalog for paths, loading it on a miss.
func (c *CatalogCache) Get(paths Paths) (*Catalog, error) {
	if val, found := c.cache.Get(paths.key()); found {
		return val.(*Catalog), nil
	}

	catalog, err := Load(paths)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(paths.key(), catalog)
	return catalog, nil
}

// Len returns the number of cached catalogs.
func (c *CatalogCache) Len() int {
	return c.cache.ItemCount()
}

// Clear drops every cached catalog.
func (c *CatalogCache) Clear() {
	c.cache.Flush()
}
