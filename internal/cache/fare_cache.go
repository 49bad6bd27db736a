package cache

import (
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// FareCache keeps each airline's active fares in process memory for a short TTL.
type FareCache struct {
	store *gocache.Cache
}

func NewFareCache(ttl time.Duration) *FareCache {
	return &FareCache{store: gocache.New(ttl, 2*ttl)}
}

func (c *FareCache) Get(airlineCode string) ([]domain.Fare, bool) {
	v, ok := c.store.Get(airlineCode)
	if !ok {
		return nil, false
	}
	return v.([]domain.Fare), true
}

func (c *FareCache) Set(airlineCode string, fares []domain.Fare) {
	c.store.SetDefault(airlineCode, fares)
}

func (c *FareCache) Invalidate(airlineCode string) {
	c.store.Delete(airlineCode)
}

func (c *FareCache) Flush() {
	c.store.Flush()
}
