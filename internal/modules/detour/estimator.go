// README: Estimates the extra distance, time and fuel of picking a load up on the way.
package detour

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"loadrec/internal/types"
)

var ErrMissingAddress = errors.New("pickup or drop address is missing")

type Estimator struct {
	segments      SegmentProvider
	fuelCostPerKm float64
}

func NewEstimator(segments SegmentProvider, fuelCostPerKm float64) *Estimator {
	return &Estimator{segments: segments, fuelCostPerKm: fuelCostPerKm}
}

// Estimate queries origin->drop, origin->pickup and pickup->drop concurrently.
// Any failed segment fails the whole estimate.
func (e *Estimator) Estimate(ctx context.Context, origin types.Point, pickup, drop string) (*Info, error) {
	if pickup == "" || drop == "" {
		return nil, ErrMissingAddress
	}
	from := origin.String()

	var direct, toPickup, pickupToDrop Segment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		direct, err = e.segment(gctx, from, drop)
		return err
	})
	g.Go(func() (err error) {
		toPickup, err = e.segment(gctx, from, pickup)
		return err
	})
	g.Go(func() (err error) {
		pickupToDrop, err = e.segment(gctx, pickup, drop)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	directKm := float64(direct.DistanceMeters) / 1000
	directMin := float64(direct.DurationSeconds) / 60
	viaKm := float64(toPickup.DistanceMeters+pickupToDrop.DistanceMeters) / 1000
	viaMin := float64(toPickup.DurationSeconds+pickupToDrop.DurationSeconds) / 60

	extraKm := viaKm - directKm
	fuel := 0.0
	if extraKm > 0 {
		fuel = extraKm * e.fuelCostPerKm
	}

	return &Info{
		DirectKm: round(directKm, 1),
		ViaKm:    round(viaKm, 1),
		ExtraKm:  round(extraKm, 1),
		ExtraMin: round(viaMin-directMin, 1),
		FuelCost: round(fuel, 2),
	}, nil
}

func (e *Estimator) segment(ctx context.Context, from, to string) (Segment, error) {
	s, err := e.segments.Segment(ctx, from, to)
	if err != nil {
		return Segment{}, fmt.Errorf("segment %s -> %s: %w", from, to, err)
	}
	return s, nil
}

// round rounds v as its decimal value reads, ties to even.
func round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}
