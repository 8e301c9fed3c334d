package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relog-dev/relog/core"
)

// chatServer records the last request body and replies with handler.
func chatServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *chatRequest) {
	t.Helper()

	var last chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&last); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &last
}

func completion(content string) string {
	return `{"choices":[{"message":{"content":` + jsonString(content) + `}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestMissingAPIKey(t *testing.T) {
	_, err := NewOpenAI(Config{})
	if !errors.Is(err, core.ErrConfig) {
		t.Errorf("Expected config error for missing key, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	server, last := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion("  Adds data export.  ")))
	})

	client, err := NewOpenAI(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	summary, err := client.Summarize(context.Background(), Request{
		System: "You write release notes.",
		User:   "Summarize: feat: export",
	})
	if err != nil {
		t.Fatalf("Failed to summarize: %v", err)
	}
	if summary != "Adds data export." {
		t.Errorf("Expected trimmed summary, got %q", summary)
	}

	if last.Model != DefaultModel {
		t.Errorf("Expected default model %s, got %s", DefaultModel, last.Model)
	}
	if last.MaxTokens != DefaultMaxTokens {
		t.Errorf("Expected default max tokens %d, got %d", DefaultMaxTokens, last.MaxTokens)
	}
	if len(last.Messages) != 2 || last.Messages[0].Role != "system" || last.Messages[1].Role != "user" {
		t.Errorf("Expected system then user message, got %+v", last.Messages)
	}
}

func TestSummarizeCustomParameters(t *testing.T) {
	server, last := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion("ok")))
	})

	client, err := NewOpenAI(Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   64,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if _, err := client.Summarize(context.Background(), Request{User: "message"}); err != nil {
		t.Fatalf("Failed to summarize: %v", err)
	}

	if last.Model != "gpt-4o-mini" || last.Temperature != 0.2 || last.MaxTokens != 64 {
		t.Errorf("Expected custom parameters echoed, got %+v", last)
	}
}

func TestSummarizeNoSystemSection(t *testing.T) {
	server, last := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion("ok")))
	})

	client, _ := NewOpenAI(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.Summarize(context.Background(), Request{User: "just user"}); err != nil {
		t.Fatalf("Failed to summarize: %v", err)
	}
	if len(last.Messages) != 1 || last.Messages[0].Role != "user" {
		t.Errorf("Expected a single user message, got %+v", last.Messages)
	}
}

func TestSummarizeEmptyUser(t *testing.T) {
	client, _ := NewOpenAI(Config{APIKey: "test-key", BaseURL: "http://unused.invalid"})
	_, err := client.Summarize(context.Background(), Request{})
	if !errors.Is(err, core.ErrConfig) {
		t.Errorf("Expected config error for empty user content, got %v", err)
	}
}

func TestSummarizeAPIError(t *testing.T) {
	server, _ := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	client, _ := NewOpenAI(Config{APIKey: "test-key", BaseURL: server.URL, Retries: 1})
	_, err := client.Summarize(context.Background(), Request{User: "message"})
	if !errors.Is(err, core.ErrService) {
		t.Errorf("Expected service error, got %v", err)
	}
}

func TestSummarizeNoChoices(t *testing.T) {
	server, _ := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	client, _ := NewOpenAI(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Summarize(context.Background(), Request{User: "message"})
	if !errors.Is(err, core.ErrService) {
		t.Errorf("Expected service error for no choices, got %v", err)
	}
}

func TestSummarizeEmptyContent(t *testing.T) {
	server, _ := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completion("   ")))
	})

	client, _ := NewOpenAI(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Summarize(context.Background(), Request{User: "message"})
	if !errors.Is(err, core.ErrService) {
		t.Errorf("Expected service error for empty content, got %v", err)
	}
}
