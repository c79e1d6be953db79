package ai

import (
	"encoding/json"
	"fmt"
	"strconv"

	"loadrec/internal/modules/detour"
	"loadrec/internal/modules/load"
	"loadrec/internal/modules/scoring"
)

const (
	summarySystemPrompt = "You are an expert logistics assistant providing clear, actionable advice to truck drivers."
	answerSystemPrompt  = "You are a helpful logistics expert."
)

type summaryItem struct {
	LoadDetails load.Load   `json:"load_details"`
	Score       float64     `json:"score"`
	DetourInfo  detour.Info `json:"detour_info"`
}

func buildSummaryPrompt(truck scoring.Truck, top []scoring.ScoredLoad) string {
	items := make([]summaryItem, len(top))
	for i, s := range top {
		items[i] = summaryItem{LoadDetails: s.Load, Score: s.Score, DetourInfo: s.Detour}
	}
	return fmt.Sprintf("Truck details: Current Location (%s), Capacity: %s tons. "+
		"Based on the following top %d potential loads, provide a concise recommendation for the driver. "+
		"Prioritize loads with high scores, minimal detours, and compatibility with truck capacity. "+
		"Explain your top choice briefly.\n\n"+
		"Top Loads (with scores and detour info):\n%s\n\nRecommendation:",
		truck.Location, strconv.FormatFloat(truck.Capacity, 'f', -1, 64), len(top), indentJSON(items))
}

func buildAnswerPrompt(question string, recent []load.Load) string {
	if recent == nil {
		recent = []load.Load{}
	}
	return fmt.Sprintf("You are a logistics expert assisting with a question:\n%s\n\n"+
		"Here are some recent loads that might be relevant:\n%s\n\nAnswer:",
		question, indentJSON(recent))
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}
