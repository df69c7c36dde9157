package llm

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GenerateOptions are already clamped by the gateway.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// Engine is a loaded text-generation model.
type Engine interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Loader initializes the engine for a model. Loading may be slow.
type Loader interface {
	Load(ctx context.Context, model string) (Engine, error)
}

type LoaderFunc func(ctx context.Context, model string) (Engine, error)

func (f LoaderFunc) Load(ctx context.Context, model string) (Engine, error) {
	return f(ctx, model)
}

// SharedEngine memoizes one engine per model for the process lifetime.
// Concurrent first callers for a model share a single in-flight load.
// Until some model has loaded, a failed load is retried by the next
// caller. Once one has, models that failed stay failed so callers fall
// through to the loaded engine without paying for another load.
type SharedEngine struct {
	loader Loader
	logger *zap.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	engines map[string]Engine
	failed  map[string]error
}

func NewSharedEngine(loader Loader, logger *zap.Logger) *SharedEngine {
	return &SharedEngine{
		loader:  loader,
		logger:  logger,
		engines: make(map[string]Engine),
		failed:  make(map[string]error),
	}
}

// settledFailure returns the remembered load error for model when another
// model is already serving.
func (s *SharedEngine) settledFailure(model string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.engines) == 0 {
		return nil
	}
	return s.failed[model]
}

func (s *SharedEngine) recordFailure(model string, err error) {
	s.mu.Lock()
	s.failed[model] = err
	s.mu.Unlock()
}

func (s *SharedEngine) cached(model string) (Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.engines[model]
	return e, ok
}

// Loaded reports whether model has been initialized.
func (s *SharedEngine) Loaded(model string) bool {
	_, ok := s.cached(model)
	return ok
}

// Get returns the engine for model, loading it on first use. The load runs
// detached from ctx so a cancelled caller does not fail the other waiters;
// ctx only bounds how long this caller waits.
func (s *SharedEngine) Get(ctx context.Context, model string) (Engine, error) {
	if e, ok := s.cached(model); ok {
		return e, nil
	}
	if err := s.settledFailure(model); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelLoad, model, err)
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(model, func() (v any, err error) {
		if e, ok := s.cached(model); ok {
			return e, nil
		}
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("loader panic: %v", r)
			}
			if err != nil {
				s.recordFailure(model, err)
			}
		}()

		s.logger.Info("loading model", zap.String("model", model))
		e, err := s.loader.Load(loadCtx, model)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, fmt.Errorf("loader returned no engine")
		}

		s.mu.Lock()
		s.engines[model] = e
		delete(s.failed, model)
		s.mu.Unlock()
		s.logger.Info("model loaded", zap.String("model", model))
		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrModelLoad, model, res.Err)
		}
		return res.Val.(Engine), nil
	}
}
