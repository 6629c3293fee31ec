package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqTimeout = 60 * time.Second

	groqTemperature = 0.6
	groqMaxTokens   = 512
)

// Groq is the hosted completion backend, speaking the OpenAI-compatible
// Groq chat API.
type Groq struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGroq creates the hosted provider with the given API key and model.
func NewGroq(apiKey, model string) *Groq {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	return &Groq{
		apiKey:  apiKey,
		model:   model,
		baseURL: groqBaseURL,
		httpClient: &http.Client{
			Timeout: groqTimeout,
		},
	}
}

// NewGroqWithBaseURL creates a Groq provider pointing at a custom base URL
// (for testing).
func NewGroqWithBaseURL(apiKey, model, baseURL string) *Groq {
	g := NewGroq(apiKey, model)
	g.baseURL = strings.TrimRight(baseURL, "/")
	return g
}

func (g *Groq) Name() string { return "groq" }

type groqChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type groqChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the messages to Groq and returns the first choice's content.
func (g *Groq) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(groqChatRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: groqTemperature,
		MaxTokens:   groqMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result groqChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}
	return result.Choices[0].Message.Content, nil
}
