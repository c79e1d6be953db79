package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"loadrec/internal/modules/detour"
	"loadrec/internal/modules/load"
	"loadrec/internal/types"
)

type fakeGeocoder struct {
	loc   types.Location
	err   error
	calls atomic.Int32
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (types.Location, error) {
	f.calls.Add(1)
	return f.loc, f.err
}

// fakeDetours answers per pickup|drop key; unknown pairs fail.
type fakeDetours struct {
	mu     sync.Mutex
	byPair map[string]detour.Info
	delay  map[string]time.Duration
	calls  []string
}

func (f *fakeDetours) Estimate(ctx context.Context, _ types.Point, pickup, drop string) (*detour.Info, error) {
	key := pickup + "|" + drop
	f.mu.Lock()
	f.calls = append(f.calls, key)
	info, ok := f.byPair[key]
	d := f.delay[key]
	f.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if !ok {
		return nil, errors.New("no route")
	}
	return &info, nil
}

func mustLoads(t *testing.T, doc string) []load.Load {
	t.Helper()
	var loads []load.Load
	require.NoError(t, json.Unmarshal([]byte(doc), &loads))
	return loads
}

func ids(scored []ScoredLoad) []string {
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.Load.LoadID
	}
	return out
}

var nagpur = types.Location{Point: types.Point{Lat: 21.1458, Lng: 79.0882}, FormattedAddress: "Nagpur, Maharashtra, India"}

func newTestScorer(detours *fakeDetours) (*Scorer, *fakeGeocoder) {
	geo := &fakeGeocoder{loc: nagpur}
	return NewScorer(geo, detours, 4), geo
}

func TestScoreLoadsFiltersAndScores(t *testing.T) {
	detours := &fakeDetours{byPair: map[string]detour.Info{
		"Wardha|Hyderabad": {DirectKm: 500, ViaKm: 540.6, ExtraKm: 40.6, ExtraMin: 60.5, FuelCost: 1095.12},
		"Pune|Mumbai":      {DirectKm: 150, ViaKm: 150, ExtraKm: 0, ExtraMin: 0, FuelCost: 0},
		"Delhi|Agra":       {DirectKm: 230, ViaKm: 260, ExtraKm: 30, ExtraMin: 30, FuelCost: 50},
	}}
	s, _ := newTestScorer(detours)

	loads := mustLoads(t, `[
		{"load_id":"L1","pickup_point":"Wardha","destination":"Hyderabad","rate":"â‚¹30/km","weight_tons":10},
		{"load_id":"L2","pickup_point":"Pune","destination":"Mumbai","rate":"₹20/km","weight_tons":25},
		{"load_id":"L3","origin":"Delhi","destination":"Agra","rate":"₹10/km","status":"Urgent","weight_tons":"n/a"},
		{"load_id":"L4","pickup_point":"Pune","rate":"₹40/km"},
		{"load_id":"L5","pickup_point":"Surat","destination":"Goa","rate":"₹50/km"},
		{"load_id":"L6","pickup_point":"Pune","destination":"Mumbai","rate":"free"}
	]`)

	got := s.ScoreLoads(context.Background(), Truck{Location: "Nagpur", Capacity: 20}, loads)

	require.Equal(t, []string{"L1", "L3", "L6"}, ids(got))
	require.Equal(t, 18.04, got[0].Score)
	require.Equal(t, 11.0, got[1].Score)
	require.Equal(t, 0.0, got[2].Score)

	rate, _ := got[0].Load.RateText()
	require.Equal(t, "₹30/km", rate)
	require.Equal(t, 540.6, got[0].Detour.ViaKm)
}

func TestScoreLoadsNeedsPickup(t *testing.T) {
	detours := &fakeDetours{byPair: map[string]detour.Info{"A|B": {}}}
	s, _ := newTestScorer(detours)
	loads := mustLoads(t, `[
		{"load_id":"absent","destination":"B","rate":"₹30/km"},
		{"load_id":"blank","pickup_point":"","origin":"","destination":"B","rate":"₹30/km"},
		{"load_id":"origin","pickup_point":"","origin":"A","destination":"B","rate":"₹30/km"}
	]`)

	got := s.ScoreLoads(context.Background(), Truck{Location: "Nagpur", Capacity: 20}, loads)
	require.Equal(t, []string{"origin"}, ids(got))
	require.Equal(t, []string{"A|B"}, detours.calls)
}

func TestScoreLoadsEmptyBatchSkipsGeocoding(t *testing.T) {
	s, geo := newTestScorer(&fakeDetours{})

	got := s.ScoreLoads(context.Background(), Truck{Location: "Nagpur", Capacity: 20}, nil)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Zero(t, geo.calls.Load())
}

func TestScoreLoadsUnlocatedTruck(t *testing.T) {
	detours := &fakeDetours{byPair: map[string]detour.Info{"A|B": {}}}
	loads := mustLoads(t, `[{"load_id":"L1","pickup_point":"A","destination":"B","rate":"₹30/km"}]`)

	geo := &fakeGeocoder{err: errors.New("ZERO_RESULTS")}
	got := NewScorer(geo, detours, 2).ScoreLoads(context.Background(), Truck{Location: "Atlantis", Capacity: 20}, loads)
	require.Empty(t, got)
	require.Empty(t, detours.calls)

	got = NewScorer(&fakeGeocoder{loc: nagpur}, detours, 2).ScoreLoads(context.Background(), Truck{Capacity: 20}, loads)
	require.Empty(t, got)
	require.Empty(t, detours.calls)
}

func TestScoreLoadsCapacityBoundary(t *testing.T) {
	detours := &fakeDetours{byPair: map[string]detour.Info{"A|B": {}}}
	s, _ := newTestScorer(detours)
	loads := mustLoads(t, `[
		{"load_id":"exact","pickup_point":"A","destination":"B","weight_tons":20},
		{"load_id":"over","pickup_point":"A","destination":"B","weight_tons":20.01},
		{"load_id":"missing","pickup_point":"A","destination":"B"}
	]`)

	got := s.ScoreLoads(context.Background(), Truck{Location: "Nagpur", Capacity: 20}, loads)
	require.Equal(t, []string{"exact", "missing"}, ids(got))
}

func TestScoreLoadsRateForms(t *testing.T) {
	detours := &fakeDetours{byPair: map[string]detour.Info{"A|B": {}}}
	s, _ := newTestScorer(detours)
	loads := mustLoads(t, `[
		{"load_id":"text","pickup_point":"A","destination":"B","rate":"Rs. 24/km"},
		{"load_id":"number","pickup_point":"A","destination":"B","rate":18.5},
		{"load_id":"absent","pickup_point":"A","destination":"B"},
		{"load_id":"negative","pickup_point":"A","destination":"B","rate":"₹-3/km"},
		{"load_id":"null","pickup_point":"A","destination":"B","rate":null}
	]`)

	got := s.ScoreLoads(context.Background(), Truck{Location: "Nagpur", Capacity: 20}, loads)
	require.Len(t, got, 5)
	scores := map[string]float64{}
	for _, g := range got {
		scores[g.Load.LoadID] = g.Score
	}
	require.Equal(t, map[string]float64{"text": 24, "number": 18.5, "absent": 0, "negative": 0, "null": 0}, scores)
}

func TestScoreLoadsKeepsInputOrderUnderConcurrency(t *testing.T) {
	detours := &fakeDetours{
		byPair: map[string]detour.Info{},
		delay:  map[string]time.Duration{},
	}
	var doc []map[string]any
	want := []string{}
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		key := name + "|z"
		detours.byPair[key] = detour.Info{}
		detours.delay[key] = time.Duration(8-i) * 2 * time.Millisecond
		doc = append(doc, map[string]any{"load_id": name, "pickup_point": name, "destination": "z", "rate": "₹1/km"})
		want = append(want, name)
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	s, _ := newTestScorer(detours)
	got := s.ScoreLoads(context.Background(), Truck{Location: "Nagpur", Capacity: 20}, mustLoads(t, string(raw)))
	require.Equal(t, want, ids(got))
}

func TestScoreLoadsDoesNotMutateInputAndIsRepeatable(t *testing.T) {
	detours := &fakeDetours{byPair: map[string]detour.Info{"A|B": {ExtraMin: 12, FuelCost: 40}}}
	s, _ := newTestScorer(detours)
	loads := mustLoads(t, `[{"load_id":"L1","pickup_point":"A","destination":"B","rate":" Rs.22/km ","extra":{"k":1}}]`)
	before, err := json.Marshal(loads)
	require.NoError(t, err)

	first := s.ScoreLoads(context.Background(), Truck{Location: "Nagpur", Capacity: 20}, loads)
	second := s.ScoreLoads(context.Background(), Truck{Location: "Nagpur", Capacity: 20}, loads)

	after, err := json.Marshal(loads)
	require.NoError(t, err)
	require.JSONEq(t, string(before), string(after))
	require.Equal(t, first, second)
	require.Equal(t, 21.4, first[0].Score)
}
