package routing

import "context"

const metersPerMile = 1609.344

// DistanceResolver resolves one-way driving distance, in miles, between two
// coordinate pairs. Implementations must honor context cancellation; a failed
// lookup returns an error and the caller degrades to "mileage not computed".
type DistanceResolver interface {
	DrivingDistanceMiles(ctx context.Context, lat1, lon1, lat2, lon2 float64) (float64, error)
}
