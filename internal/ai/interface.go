package ai

import (
	"context"

	"loadrec/internal/modules/load"
	"loadrec/internal/modules/scoring"
)

// LLMProvider turns scored loads and load records into advice for drivers.
// Implementations: OpenAI, Gemini, and an offline stand-in.
type LLMProvider interface {
	// Summarize recommends one of the top-scored loads to the truck's driver.
	Summarize(ctx context.Context, truck scoring.Truck, top []scoring.ScoredLoad) (string, error)

	// Answer responds to a free-form logistics question with recent loads as context.
	Answer(ctx context.Context, question string, recent []load.Load) (string, error)
}
