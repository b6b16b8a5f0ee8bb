package satellite

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// seriesCache memoizes fetched observation series so repeated runs over the
// same site within a day skip the cascade entirely. Keys round coordinates
// to ~100 m and include the UTC day, since the query window is anchored to
// the current time.
type seriesCache struct {
	cache *gocache.Cache
}

func newSeriesCache(ttl time.Duration) *seriesCache {
	if ttl <= 0 {
		return nil
	}
	return &seriesCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func seriesKey(lat, lon float64, now time.Time) string {
	return fmt.Sprintf("%.3f,%.3f:%s", lat, lon, now.UTC().Format("2006-01-02"))
}

func (c *seriesCache) get(lat, lon float64, now time.Time) ([]Observation, bool) {
	if c == nil {
		return nil, false
	}
	v, found := c.cache.Get(seriesKey(lat, lon, now))
	if !found {
		return nil, false
	}
	obs, ok := v.([]Observation)
	return obs, ok
}

func (c *seriesCache) set(lat, lon float64, now time.Time, obs []Observation) {
	if c == nil {
		return
	}
	c.cache.Set(seriesKey(lat, lon, now), obs, gocache.DefaultExpiration)
}
