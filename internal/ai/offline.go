package ai

import (
	"context"

	"loadrec/internal/modules/load"
	"loadrec/internal/modules/scoring"
)

const (
	offlineSummary = "OpenAI API key not set. Mock summary: Consider the load with the highest score and lowest detour."
	offlineAnswer  = "OpenAI API key not set. Mock answer: I can help with logistics questions if properly configured."
)

// OfflineProvider stands in when no LLM key is configured.
type OfflineProvider struct{}

func (OfflineProvider) Summarize(context.Context, scoring.Truck, []scoring.ScoredLoad) (string, error) {
	return offlineSummary, nil
}

func (OfflineProvider) Answer(context.Context, string, []load.Load) (string, error) {
	return offlineAnswer, nil
}
