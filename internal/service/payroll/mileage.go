package payroll

import (
	"context"
	"sync"

	"github.com/eventstaffhq/crm-backend-go/internal/pkg/routing"
)

type coordPair struct {
	lat1, lon1, lat2, lon2 float64
}

// distanceCache memoizes one-way driving distances per coordinate pair for
// the span of a single payroll computation. A worker travelling to the same
// venue on several assignments in one period costs one external lookup.
// Failed lookups are cached as not-computable and never retried within the
// same computation. The cache is owned by the computation and discarded with
// it; nothing leaks across requests or tenants.
type distanceCache struct {
	resolver routing.DistanceResolver

	mu    sync.Mutex
	miles map[coordPair]*float64 // nil value means the lookup failed
}

func newDistanceCache(resolver routing.DistanceResolver) *distanceCache {
	return &distanceCache{
		resolver: resolver,
		miles:    make(map[coordPair]*float64),
	}
}

// oneWayMiles returns the one-way driving distance, or nil when the distance
// is not computable (failed or cancelled lookup).
func (c *distanceCache) oneWayMiles(ctx context.Context, lat1, lon1, lat2, lon2 float64) *float64 {
	key := coordPair{lat1, lon1, lat2, lon2}

	c.mu.Lock()
	if cached, ok := c.miles[key]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	var result *float64
	if d, err := c.resolver.DrivingDistanceMiles(ctx, lat1, lon1, lat2, lon2); err == nil {
		result = &d
	}

	c.mu.Lock()
	c.miles[key] = result
	c.mu.Unlock()

	return result
}
