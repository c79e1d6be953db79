// README: Recommender orchestrates load listing, scoring, ranking and the LLM calls built on them.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"loadrec/internal/ai"
	"loadrec/internal/modules/aiusage"
	"loadrec/internal/modules/load"
	"loadrec/internal/modules/scoring"
)

const (
	// summaryTop is how many of the best loads the LLM gets to compare.
	summaryTop = 3
	// askContext is how many of the newest loads accompany a question.
	askContext = 5
)

var (
	ErrNoLoads         = errors.New("no loads available to make recommendations")
	ErrNoSuitableLoads = errors.New("no suitable loads found for this truck")
	ErrEmptyQuestion   = errors.New("a 'question' field is required in the payload")
	ErrAIUnavailable   = errors.New("AI provider failed to respond")
)

type LoadSource interface {
	List(ctx context.Context) ([]load.Load, error)
	Recent(ctx context.Context, n int) ([]load.Load, error)
}

type LoadScorer interface {
	ScoreLoads(ctx context.Context, truck scoring.Truck, loads []load.Load) []scoring.ScoredLoad
}

type Quota interface {
	UseToken(ctx context.Context, caller string) (int, error)
}

// AIReply is LLM output plus the caller's remaining monthly allowance
// (aiusage.Unlimited when no quota applies).
type AIReply struct {
	Text       string
	TokensLeft int
}

type Recommender struct {
	loads     LoadSource
	scorer    LoadScorer
	llm       ai.LLMProvider
	quota     Quota
	aiTimeout time.Duration
}

func NewRecommender(loads LoadSource, scorer LoadScorer, llm ai.LLMProvider, quota Quota, aiTimeout time.Duration) *Recommender {
	return &Recommender{loads: loads, scorer: scorer, llm: llm, quota: quota, aiTimeout: aiTimeout}
}

// Recommend scores every stored load for truck, best first. Equal scores
// keep store order.
func (r *Recommender) Recommend(ctx context.Context, truck scoring.Truck) ([]scoring.ScoredLoad, error) {
	loads, err := r.loads.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(loads) == 0 {
		log.Warn().Msg("no loads available from the data source")
		return []scoring.ScoredLoad{}, nil
	}

	scored := r.scorer.ScoreLoads(ctx, truck, loads)
	if len(scored) == 0 {
		log.Info().Str("location", truck.Location).Msg("no suitable loads found after scoring")
	}
	sortByScore(scored)
	return scored, nil
}

// Summary asks the LLM to pick among the top three loads for truck.
func (r *Recommender) Summary(ctx context.Context, caller string, truck scoring.Truck) (AIReply, error) {
	loads, err := r.loads.List(ctx)
	if err != nil {
		return AIReply{}, err
	}
	if len(loads) == 0 {
		return AIReply{}, ErrNoLoads
	}

	scored := r.scorer.ScoreLoads(ctx, truck, loads)
	if len(scored) == 0 {
		return AIReply{}, ErrNoSuitableLoads
	}
	sortByScore(scored)
	if len(scored) > summaryTop {
		scored = scored[:summaryTop]
	}

	left, err := r.useToken(ctx, caller)
	if err != nil {
		return AIReply{}, err
	}

	ctx, cancel := r.withAITimeout(ctx)
	defer cancel()
	text, err := r.llm.Summarize(ctx, truck, scored)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate AI summary")
		return AIReply{}, fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}
	return AIReply{Text: text, TokensLeft: left}, nil
}

// Ask answers a logistics question with the newest loads as context.
func (r *Recommender) Ask(ctx context.Context, caller, question string) (AIReply, error) {
	if strings.TrimSpace(question) == "" {
		return AIReply{}, ErrEmptyQuestion
	}

	recent, err := r.loads.Recent(ctx, askContext)
	if err != nil {
		return AIReply{}, err
	}
	log.Debug().Int("context_loads", len(recent)).Msg("asking agent")

	left, err := r.useToken(ctx, caller)
	if err != nil {
		return AIReply{}, err
	}

	ctx, cancel := r.withAITimeout(ctx)
	defer cancel()
	answer, err := r.llm.Answer(ctx, question, recent)
	if err != nil {
		log.Error().Err(err).Str("question", question).Msg("failed to get an answer from the AI agent")
		return AIReply{}, fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}
	return AIReply{Text: answer, TokensLeft: left}, nil
}

// useToken charges caller one token. Quota store outages are logged and let through.
func (r *Recommender) useToken(ctx context.Context, caller string) (int, error) {
	if r.quota == nil {
		return aiusage.Unlimited, nil
	}
	left, err := r.quota.UseToken(ctx, caller)
	switch {
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		return 0, err
	case err != nil:
		log.Warn().Err(err).Str("caller", caller).Msg("AI quota check failed; allowing request")
		return aiusage.Unlimited, nil
	}
	return left, nil
}

func (r *Recommender) withAITimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.aiTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.aiTimeout)
}

func sortByScore(s []scoring.ScoredLoad) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Score > s[j].Score })
}
