package llm

import "errors"

var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrModelLoad           = errors.New("model load failed")
	ErrInference           = errors.New("inference failed")
	ErrEmptyCompletion     = errors.New("empty completion")
	ErrNoBackends          = errors.New("no completion backends configured")
)
