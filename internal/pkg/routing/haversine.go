package routing

import (
	"context"
	"math"
)

// HaversineEstimator approximates driving distance with the great-circle
// distance between the two points. Used when no routing service is
// configured; real road distances are longer, so reimbursements computed from
// this estimator are a lower bound.
type HaversineEstimator struct{}

func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{}
}

// DrivingDistanceMiles implements DistanceResolver.
func (e *HaversineEstimator) DrivingDistanceMiles(_ context.Context, lat1, lon1, lat2, lon2 float64) (float64, error) {
	const earthRadiusMeters = 6371000

	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c / metersPerMile, nil
}
