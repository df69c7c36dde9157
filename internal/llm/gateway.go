package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"go.uber.org/zap"
)

const (
	TierPrimary            = "primary"
	TierSecondaryPreferred = "secondary-preferred"
	TierSecondaryFallback  = "secondary-fallback"
)

// ChatBackend is a role-aware chat completion service.
type ChatBackend interface {
	Chat(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// TierObserver is told the outcome of every tier attempt.
type TierObserver interface {
	ObserveTier(tier string, ok bool)
}

type stage struct {
	tier string
	run  func(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// Gateway tries its tiers in order and returns the first non-empty
// completion. It never retries a tier within one call.
type Gateway struct {
	stages   []stage
	logger   *zap.Logger
	observer TierObserver
}

// NewGateway builds the tier pipeline. A nil primary or shared engine skips
// those tiers; empty model names are skipped too.
func NewGateway(primary ChatBackend, shared *SharedEngine, preferredModel, fallbackModel string, logger *zap.Logger) *Gateway {
	g := &Gateway{logger: logger}
	if primary != nil {
		g.stages = append(g.stages, stage{tier: TierPrimary, run: primary.Chat})
	}
	if shared != nil {
		if preferredModel != "" {
			g.stages = append(g.stages, stage{tier: TierSecondaryPreferred, run: secondary(shared, preferredModel)})
		}
		if fallbackModel != "" {
			g.stages = append(g.stages, stage{tier: TierSecondaryFallback, run: secondary(shared, fallbackModel)})
		}
	}
	return g
}

func (g *Gateway) SetObserver(o TierObserver) {
	g.observer = o
}

// Tiers lists the configured tiers in attempt order.
func (g *Gateway) Tiers() []string {
	tiers := make([]string, len(g.stages))
	for i, s := range g.stages {
		tiers[i] = s.tier
	}
	return tiers
}

func secondary(shared *SharedEngine, model string) func(context.Context, domain.CompletionRequest) (string, error) {
	return func(ctx context.Context, req domain.CompletionRequest) (string, error) {
		engine, err := shared.Get(ctx, model)
		if err != nil {
			return "", err
		}
		text, err := engine.Generate(ctx, FlatPrompt(req.System, req.Messages), GenerateOptions{
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInference, model, err)
		}
		return text, nil
	}
}

// Complete never returns a Go error or panics; failures are reported in
// the result.
func (g *Gateway) Complete(ctx context.Context, req domain.CompletionRequest) domain.CompletionResult {
	req.MaxTokens = ClampMaxTokens(req.MaxTokens)
	if req.Temperature < 0 {
		req.Temperature = 0
	}

	if len(g.stages) == 0 {
		return domain.CompletionResult{OK: false, Error: ErrNoBackends.Error()}
	}

	var errs []error
	for _, s := range g.stages {
		text, err := g.attempt(ctx, s, req)
		g.observe(s.tier, err == nil)
		if err == nil {
			return domain.CompletionResult{OK: true, Text: text, Tier: s.tier}
		}

		g.logger.Warn("completion tier failed", zap.String("tier", s.tier), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", s.tier, err))
		if ctx.Err() != nil {
			break
		}
	}

	return domain.CompletionResult{OK: false, Error: errors.Join(errs...).Error()}
}

func (g *Gateway) attempt(ctx context.Context, s stage, req domain.CompletionRequest) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrInference, r)
		}
	}()

	text, err = s.run(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func (g *Gateway) observe(tier string, ok bool) {
	if g.observer != nil {
		g.observer.ObserveTier(tier, ok)
	}
}
