package llm

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/lingopath/backend/internal/apperr"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o-mini"
)

type openAIClient struct {
	http        *resty.Client
	model       string
	temperature float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIClient creates a Generator for OpenAI-compatible chat completions.
func NewOpenAIClient(opts Options) *openAIClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(opts.APIKey)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &openAIClient{
		http:        client,
		model:       model,
		temperature: opts.Temperature,
	}
}

func (c *openAIClient) Model() string { return c.model }

// Generate sends prompt as a single user message.
func (c *openAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	}

	var out chatResponse
	var apiErr openAIError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/chat/completions")
	if err != nil {
		return "", &apperr.TransportError{Err: err}
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", &apperr.TransportError{Status: resp.StatusCode(), Body: msg}
	}

	if len(out.Choices) == 0 {
		return "", apperr.NewMalformed("reply has no choices", resp.String(), nil)
	}
	return out.Choices[0].Message.Content, nil
}
