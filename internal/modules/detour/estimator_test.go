package detour

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"loadrec/internal/types"
)

type pair struct {
	from, to string
	meters   int
	seconds  int
}

// fakeSegments answers from a fixed table and records every query.
type fakeSegments struct {
	mu    sync.Mutex
	table map[string]Segment
	calls []string
}

func newFakeSegments(pairs ...pair) *fakeSegments {
	f := &fakeSegments{table: map[string]Segment{}}
	for _, p := range pairs {
		f.table[p.from+"|"+p.to] = Segment{DistanceMeters: p.meters, DurationSeconds: p.seconds}
	}
	return f
}

func (f *fakeSegments) Segment(_ context.Context, origin, destination string) (Segment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, origin+"|"+destination)
	s, ok := f.table[origin+"|"+destination]
	if !ok {
		return Segment{}, fmt.Errorf("no route %q -> %q", origin, destination)
	}
	return s, nil
}

var truckAt = types.Point{Lat: 21.1458, Lng: 79.0882}

func TestEstimate(t *testing.T) {
	segs := newFakeSegments(
		pair{"21.1458,79.0882", "Hyderabad", 500_000, 30_000},
		pair{"21.1458,79.0882", "Wardha", 80_000, 5_400},
		pair{"Wardha", "Hyderabad", 460_560, 28_230},
	)
	est := NewEstimator(segs, 27)

	info, err := est.Estimate(context.Background(), truckAt, "Wardha", "Hyderabad")
	require.NoError(t, err)
	require.Equal(t, &Info{
		DirectKm: 500,
		ViaKm:    540.6,
		ExtraKm:  40.6,
		ExtraMin: 60.5,
		FuelCost: 1095.12,
	}, info)
	require.Len(t, segs.calls, 3)
}

func TestEstimateShorterViaPickupHasNoFuelCost(t *testing.T) {
	segs := newFakeSegments(
		pair{"21.1458,79.0882", "B", 100_000, 3_600},
		pair{"21.1458,79.0882", "A", 40_000, 1_200},
		pair{"A", "B", 50_000, 1_800},
	)

	info, err := NewEstimator(segs, 27).Estimate(context.Background(), truckAt, "A", "B")
	require.NoError(t, err)
	require.Equal(t, -10.0, info.ExtraKm)
	require.Equal(t, -10.0, info.ExtraMin)
	require.Zero(t, info.FuelCost)
}

func TestEstimateMissingAddress(t *testing.T) {
	segs := newFakeSegments()
	est := NewEstimator(segs, 27)

	_, err := est.Estimate(context.Background(), truckAt, "", "B")
	require.ErrorIs(t, err, ErrMissingAddress)
	_, err = est.Estimate(context.Background(), truckAt, "A", "")
	require.ErrorIs(t, err, ErrMissingAddress)
	require.Empty(t, segs.calls)
}

func TestEstimateSegmentFailure(t *testing.T) {
	segs := newFakeSegments(
		pair{"21.1458,79.0882", "B", 100_000, 3_600},
		pair{"21.1458,79.0882", "A", 40_000, 1_200},
	)

	info, err := NewEstimator(segs, 27).Estimate(context.Background(), truckAt, "A", "B")
	require.Error(t, err)
	require.Nil(t, info)
}

type failingSegments struct{ err error }

func (f failingSegments) Segment(context.Context, string, string) (Segment, error) {
	return Segment{}, f.err
}

func TestEstimateWrapsProviderError(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := NewEstimator(failingSegments{boom}, 27).Estimate(context.Background(), truckAt, "A", "B")
	require.ErrorIs(t, err, boom)
}

func TestRoundUsesDecimalValue(t *testing.T) {
	require.Equal(t, 2.67, round(2.675, 2))
	require.Equal(t, 1.1, round(1.05, 1))
	require.Equal(t, 0.2, round(0.25, 1))
	require.Equal(t, 40.6, round(40.56, 1))
	require.Equal(t, 0.0, round(-0.04, 1))
}
