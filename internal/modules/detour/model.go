// README: Detour types: one route segment and the via-pickup detour summary.
package detour

import "context"

// Segment is the driving distance and time between two places.
type Segment struct {
	DistanceMeters  int
	DurationSeconds int
}

type SegmentProvider interface {
	Segment(ctx context.Context, origin, destination string) (Segment, error)
}

// Info compares going straight to the drop with going via the pickup.
// Distances and minutes carry one decimal, FuelCost two.
type Info struct {
	DirectKm float64 `json:"direct_km"`
	ViaKm    float64 `json:"via_km"`
	ExtraKm  float64 `json:"extra_km"`
	ExtraMin float64 `json:"extra_min"`
	FuelCost float64 `json:"fuel_cost"`
}
