package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAILoader loads models served by a local OpenAI-compatible runtime
// such as llama.cpp server or LocalAI.
type OpenAILoader struct {
	client *openai.Client
}

func NewOpenAILoader(baseURL, apiKey string, timeout time.Duration) *OpenAILoader {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAILoader{client: openai.NewClientWithConfig(cfg)}
}

// Load succeeds when the runtime lists model. Runtimes report either the
// bare name or a file path ending in it, so the match is case-insensitive
// on the suffix.
func (l *OpenAILoader) Load(ctx context.Context, model string) (Engine, error) {
	list, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	want := strings.ToLower(model)
	for _, m := range list.Models {
		id := strings.ToLower(m.ID)
		if strings.HasSuffix(strings.TrimSuffix(id, ".gguf"), want) {
			return &openAIEngine{client: l.client, model: m.ID}, nil
		}
	}
	return nil, fmt.Errorf("model %s not served", model)
}

type openAIEngine struct {
	client *openai.Client
	model  string
}

func (e *openAIEngine) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	// The request drops a zero temperature, so greedy decoding is asked for
	// with the smallest positive value instead.
	temp := float32(opts.Temperature)
	if temp <= 0 {
		temp = math.SmallestNonzeroFloat32
	}

	resp, err := e.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       e.model,
		Prompt:      prompt,
		MaxTokens:   opts.MaxTokens,
		Temperature: temp,
		Stop:        []string{"\n" + userLabel},
	})
	if err != nil {
		return "", fmt.Errorf("create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Text), nil
}
