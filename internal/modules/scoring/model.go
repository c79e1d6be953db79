// README: Scoring inputs and outputs: the truck, its ports, and scored loads.
package scoring

import (
	"context"

	"loadrec/internal/modules/detour"
	"loadrec/internal/modules/load"
	"loadrec/internal/types"
)

type Truck struct {
	Location string  `json:"location"`
	Capacity float64 `json:"capacity"`
}

type ScoredLoad struct {
	Load   load.Load   `json:"load"`
	Score  float64     `json:"score"`
	Detour detour.Info `json:"detour"`
}

// Breakdown is every term that went into a score.
type Breakdown struct {
	Rate         float64
	UrgencyBonus float64
	FuelPenalty  float64
	TimePenalty  float64
	Score        float64
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Location, error)
}

type DetourEstimator interface {
	Estimate(ctx context.Context, origin types.Point, pickup, drop string) (*detour.Info, error)
}
