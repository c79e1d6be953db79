// README: Scores candidate loads for one truck: capacity filter, detour lookup, rate parse, blend.
package scoring

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"loadrec/internal/modules/load"
	"loadrec/internal/types"
)

type Scorer struct {
	geocoder Geocoder
	detours  DetourEstimator
	workers  int
}

func NewScorer(geocoder Geocoder, detours DetourEstimator, workers int) *Scorer {
	if workers < 1 {
		workers = 1
	}
	return &Scorer{geocoder: geocoder, detours: detours, workers: workers}
}

// ScoreLoads returns the loads the truck can take, with their score and
// detour, in input order. Excluded loads are logged and left out; if the
// truck cannot be located the result is empty. The input is never modified.
func (s *Scorer) ScoreLoads(ctx context.Context, truck Truck, loads []load.Load) []ScoredLoad {
	out := []ScoredLoad{}
	if len(loads) == 0 {
		return out
	}

	if truck.Location == "" {
		log.Error().Msg("truck has no location; cannot score loads")
		scoringAbortedTotal.WithLabelValues(reasonNoLocation).Inc()
		return out
	}
	loc, err := s.geocoder.Geocode(ctx, truck.Location)
	if err != nil {
		log.Error().Err(err).Str("location", truck.Location).Msg("failed to locate truck; cannot score loads")
		scoringAbortedTotal.WithLabelValues(reasonGeocode).Inc()
		return out
	}

	results := make([]*ScoredLoad, len(loads))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range loads {
		g.Go(func() error {
			results[i] = s.scoreOne(ctx, truck, loc.Point, loads[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (s *Scorer) scoreOne(ctx context.Context, truck Truck, origin types.Point, raw load.Load) *ScoredLoad {
	l := raw.Clone()
	logger := log.With().Str("load_id", loadID(l)).Logger()

	if text, ok := l.RateText(); ok {
		l.SetRateText(NormalizeRate(text))
	}

	if w, ok := l.Weight(); ok {
		if w > truck.Capacity {
			logger.Info().Float64("weight_tons", w).Float64("capacity", truck.Capacity).Msg("load exceeds truck capacity; skipping")
			loadsExcludedTotal.WithLabelValues(reasonCapacity).Inc()
			return nil
		}
	} else {
		logger.Warn().RawJSON("weight_tons", rawOrNull(l.WeightTons)).Msg("missing or invalid weight_tons; skipping capacity check")
	}

	pickup, drop := l.Pickup(), l.Destination
	if pickup == "" || drop == "" {
		logger.Warn().Str("pickup", pickup).Str("destination", drop).Msg("load is missing pickup or destination; skipping")
		loadsExcludedTotal.WithLabelValues(reasonAddress).Inc()
		return nil
	}

	info, err := s.detours.Estimate(ctx, origin, pickup, drop)
	if err != nil || info == nil {
		logger.Info().Err(err).Msg("detour calculation failed; skipping")
		loadsExcludedTotal.WithLabelValues(reasonDetour).Inc()
		return nil
	}

	rate, err := rateOf(l)
	if err != nil {
		logger.Warn().Err(err).RawJSON("rate", rawOrNull(l.Rate)).Msg("unusable rate; using 0")
	}

	b := ComputeScore(rate, l.Status, *info)
	logger.Debug().
		Float64("rate", b.Rate).
		Float64("urgency_bonus", b.UrgencyBonus).
		Float64("fuel_penalty", b.FuelPenalty).
		Float64("time_penalty", b.TimePenalty).
		Float64("score", b.Score).
		Msg("load scored")
	loadsScoredTotal.Inc()

	return &ScoredLoad{Load: l, Score: b.Score, Detour: *info}
}

// rateOf reads a load's per-km rate. Absent means "₹0/km"; bare numbers are
// taken as they are.
func rateOf(l load.Load) (float64, error) {
	if len(l.Rate) == 0 {
		return ParseRate(missingRate)
	}
	if text, ok := l.RateText(); ok {
		return ParseRate(text)
	}
	if v, ok := l.RateNumber(); ok {
		return checkRate(v)
	}
	return 0, ErrUnparsableRate
}

func loadID(l load.Load) string {
	if l.LoadID == "" {
		return "N/A"
	}
	return l.LoadID
}

func rawOrNull(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
