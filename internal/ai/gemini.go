package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"loadrec/internal/modules/load"
	"loadrec/internal/modules/scoring"
)

// GeminiProvider implements LLMProvider using Google's Gemini models. Each
// use case gets its own model handle so the system instruction stays fixed.
type GeminiProvider struct {
	client  *genai.Client
	summary *genai.GenerativeModel
	answer  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	newModel := func(system string) *genai.GenerativeModel {
		m := client.GenerativeModel(model)
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
		m.SetTemperature(0.4)
		return m
	}

	return &GeminiProvider{
		client:  client,
		summary: newModel(summarySystemPrompt),
		answer:  newModel(answerSystemPrompt),
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) Summarize(ctx context.Context, truck scoring.Truck, top []scoring.ScoredLoad) (string, error) {
	return generate(ctx, p.summary, buildSummaryPrompt(truck, top))
}

func (p *GeminiProvider) Answer(ctx context.Context, question string, recent []load.Load) (string, error) {
	return generate(ctx, p.answer, buildAnswerPrompt(question, recent))
}

func generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: API returned empty candidates")
	}

	var textParts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok || strings.TrimSpace(string(txt)) == "" {
			continue
		}
		textParts = append(textParts, string(txt))
	}
	if len(textParts) == 0 {
		return "", fmt.Errorf("gemini: API returned empty text parts")
	}
	return strings.Join(textParts, "\n"), nil
}
