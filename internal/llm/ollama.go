package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/tidwall/gjson"
)

const ollamaChatPath = "/api/chat"

// OllamaClient talks to a local Ollama daemon. It is the primary tier.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *OllamaClient) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

// Chat sends one non-streaming chat request. Every failure wraps
// ErrUpstreamUnavailable or ErrEmptyCompletion.
func (c *OllamaClient) Chat(ctx context.Context, req domain.CompletionRequest) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    c.model,
		Messages: chatMessages(req.System, req.Messages),
		Stream:   false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ollamaChatPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: ollama request failed: %w", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read ollama response: %w", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: ollama returned status %d: %s", ErrUpstreamUnavailable, resp.StatusCode, string(respBody))
	}

	if !gjson.ValidBytes(respBody) {
		return "", fmt.Errorf("%w: ollama returned invalid json", ErrUpstreamUnavailable)
	}

	// /api/chat answers in message.content; older daemons and /api/generate
	// proxies use response.
	text := gjson.GetBytes(respBody, "message.content").String()
	if text == "" {
		text = gjson.GetBytes(respBody, "response").String()
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("ollama: %w", ErrEmptyCompletion)
	}
	return text, nil
}
