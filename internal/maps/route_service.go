package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"loadrec/internal/modules/detour"
)

var ErrRouteUnavailable = errors.New("no driving route between the given places")

// RouteService answers single origin/destination queries with the Distance
// Matrix API, driving mode, metric units.
type RouteService struct {
	client *maps.Client
}

func NewRouteService(client *maps.Client) *RouteService {
	return &RouteService{client: client}
}

// Segment returns the driving distance and duration from origin to destination.
func (s *RouteService) Segment(ctx context.Context, origin, destination string) (detour.Segment, error) {
	r := &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	}

	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return detour.Segment{}, fmt.Errorf("%w: %w", ErrRouteUnavailable, err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return detour.Segment{}, fmt.Errorf("%w: empty response", ErrRouteUnavailable)
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return detour.Segment{}, fmt.Errorf("%w: element status %s", ErrRouteUnavailable, el.Status)
	}
	return detour.Segment{
		DistanceMeters:  el.Distance.Meters,
		DurationSeconds: int(el.Duration.Seconds()),
	}, nil
}

var _ detour.SegmentProvider = (*RouteService)(nil)
