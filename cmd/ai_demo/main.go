// README: Manual check of the configured LLM provider against the local load file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"loadrec/internal/ai"
	"loadrec/internal/config"
	"loadrec/internal/infra"
	"loadrec/internal/modules/detour"
	"loadrec/internal/modules/load"
	"loadrec/internal/modules/scoring"
)

func main() {
	question := flag.String("q", "Which of the current loads pays best per km?", "question for the agent")
	location := flag.String("truck", "Nagpur, Maharashtra", "truck location for the summary prompt")
	flag.Parse()

	cfg, err := config.Load()
	infra.SetupLogger(cfg.Log.Level, "development")
	// the demo never calls Google Maps
	if err != nil && !errors.Is(err, config.ErrMissingMapsKey) {
		log.Fatal().Err(err).Msg("config")
	}

	ctx := context.Background()
	provider, closeProvider, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize AI provider")
	}
	defer closeProvider()

	loads, err := load.NewService(load.NewFileStore(cfg.Store.LoadsFile)).Recent(ctx, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("read loads")
	}

	fmt.Printf("User: %s\n", *question)
	answer, err := provider.Answer(ctx, *question, loads)
	if err != nil {
		log.Error().Err(err).Msg("answer")
		os.Exit(1)
	}
	fmt.Printf("Agent: %s\n\n", answer)

	// Without routing data every detour is zero, so scores reduce to rate plus urgency.
	top := make([]scoring.ScoredLoad, 0, 3)
	for _, l := range loads {
		if len(top) == cap(top) {
			break
		}
		rate, ok := l.RateNumber()
		if !ok {
			text, _ := l.RateText()
			if rate, err = scoring.ParseRate(scoring.NormalizeRate(text)); err != nil {
				continue
			}
		}
		b := scoring.ComputeScore(rate, l.Status, detour.Info{})
		top = append(top, scoring.ScoredLoad{Load: l, Score: b.Score})
	}
	if len(top) == 0 {
		fmt.Println("No loads with a readable rate; skipping summary.")
		return
	}

	summary, err := provider.Summarize(ctx, scoring.Truck{Location: *location, Capacity: 20}, top)
	if err != nil {
		log.Error().Err(err).Msg("summary")
		os.Exit(1)
	}
	fmt.Printf("Summary for %s:\n%s\n", *location, summary)
}
