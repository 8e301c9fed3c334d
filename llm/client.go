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

	"github.com/rs/zerolog"
	"github.com/sethgrid/pester"

	"github.com/relog-dev/relog/core"
)

// Defaults for the summarization call. MaxTokens caps the generated summary,
// not the prompt.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 100
)

// Request is one summarization call: a rendered prompt split into its chat
// roles. System may be empty.
type Request struct {
	System string
	User   string
}

// Client produces a one-line summary for a rendered prompt.
type Client interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// Config configures the OpenAI-compatible client.
type Config struct {
	APIKey      string
	BaseURL     string // defaults to DefaultBaseURL
	Model       string // defaults to DefaultModel
	Temperature float64
	MaxTokens   int // defaults to DefaultMaxTokens
	Timeout     time.Duration
	Retries     int
	Logger      zerolog.Logger
}

// OpenAI talks to an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	config Config
}

// NewOpenAI validates the configuration. A missing API key fails here,
// before any request is attempted.
func NewOpenAI(config Config) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: the OPENAI_API_KEY environment variable is not set", core.ErrConfig)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	if config.Timeout == 0 {
		config.Timeout = time.Second * 60
	}
	if config.Retries == 0 {
		config.Retries = 3
	}
	return &OpenAI{config: config}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize sends the rendered prompt and returns the trimmed completion.
func (o *OpenAI) Summarize(ctx context.Context, req Request) (string, error) {
	if req.User == "" {
		return "", fmt.Errorf("%w: user content for the prompt is empty", core.ErrConfig)
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	data, err := json.Marshal(chatRequest{
		Model:       o.config.Model,
		Messages:    messages,
		Temperature: o.config.Temperature,
		MaxTokens:   o.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := strings.TrimSuffix(o.config.BaseURL, "/") + "/chat/completions"

	// create client, in order to add headers
	client := pester.New()
	client.MaxRetries = o.config.Retries
	client.Backoff = pester.ExponentialJitterBackoff
	client.KeepLog = true
	client.Timeout = o.config.Timeout

	request, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	request.Header.Add("Authorization", fmt.Sprintf("Bearer %v", o.config.APIKey))
	request.Header.Add("Content-Type", "application/json")

	o.config.Logger.Debug().Str("model", o.config.Model).Str("url", url).Msg("Requesting commit summary")

	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion request failed: %v (%v)", core.ErrTransport, err, client.LogString())
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read chat response: %v", core.ErrTransport, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode chat response: %v", core.ErrFormat, err)
	}

	if response.StatusCode != http.StatusOK {
		if parsed.Error.Message != "" {
			return "", fmt.Errorf("%w: chat completion returned status %d: %s", core.ErrService, response.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("%w: chat completion returned status %d", core.ErrService, response.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", core.ErrService)
	}

	summary := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("%w: chat completion returned empty content", core.ErrService)
	}

	return summary, nil
}
