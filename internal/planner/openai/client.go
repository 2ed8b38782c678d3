// Package openai provides a chat-completion client used for plan drafting
// and short supplemental exercise descriptions.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "openai"

	// DefaultBaseURL is the OpenAI-compatible API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout is generous because full-plan completions are slow.
	DefaultTimeout = 60 * time.Second
)

// ErrEmptyCompletion indicates the provider returned no choices.
var ErrEmptyCompletion = errors.New("empty completion response")

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the drafting client.
type ClientConfig struct {
	// APIKey is the API secret key (required).
	APIKey string

	// BaseURL is the API base URL (optional). Any OpenAI-compatible
	// endpoint works.
	BaseURL string

	// Model is the model identifier (optional, defaults to DefaultModel).
	Model string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 60s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a chat-completion drafting client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new drafting client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CompleteJSON requests a completion constrained to a JSON object and
// returns the raw content string. Callers parse and validate the JSON
// themselves.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.complete(ctx, systemPrompt, userPrompt, &responseFormat{Type: "json_object"}, 4096)
}

// CompleteText requests a short free-form text completion.
func (c *Client) CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.complete(ctx, systemPrompt, userPrompt, nil, 256)
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, format *responseFormat, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0.7,
		MaxTokens:      maxTokens,
		ResponseFormat: format,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	requestURL := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &Error{StatusCode: resp.StatusCode, Message: "invalid response body", Err: err}
	}

	if chatResp.Error != nil {
		return "", &Error{
			StatusCode: resp.StatusCode,
			Type:       chatResp.Error.Type,
			Message:    chatResp.Error.Message,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug().
		Int("prompt_tokens", chatResp.Usage.PromptTokens).
		Int("completion_tokens", chatResp.Usage.CompletionTokens).
		Str("finish_reason", chatResp.Choices[0].FinishReason).
		Msg("completion received")

	return chatResp.Choices[0].Message.Content, nil
}
