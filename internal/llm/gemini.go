package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lingopath/backend/internal/apperr"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.5-pro"
)

// Options configures a Generator.
type Options struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
}

// NewGenerator builds the Generator for opts.Provider ("gemini" or "openai").
func NewGenerator(opts Options) (Generator, error) {
	if opts.APIKey == "" {
		return nil, &apperr.ConfigurationError{Key: "MODEL_API_KEY"}
	}
	switch strings.ToLower(opts.Provider) {
	case "", "gemini":
		return NewGeminiClient(opts), nil
	case "openai":
		return NewOpenAIClient(opts), nil
	}
	return nil, &apperr.ConfigurationError{Key: "MODEL_PROVIDER", Err: fmt.Errorf("unsupported provider %q", opts.Provider)}
}

type geminiClient struct {
	http        *resty.Client
	model       string
	temperature float64
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiClient creates a Generator for the Gemini generateContent API.
func NewGeminiClient(opts Options) *geminiClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", opts.APIKey)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &geminiClient{
		http:        client,
		model:       model,
		temperature: opts.Temperature,
	}
}

func (c *geminiClient) Model() string { return c.model }

// Generate calls models/{model}:generateContent and joins the text parts of
// the first candidate.
func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: geminiGenerationConfig{Temperature: c.temperature},
	}

	var out geminiResponse
	var apiErr geminiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("model", c.model).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1beta/models/{model}:generateContent")
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

	if out.PromptFeedback.BlockReason != "" {
		return "", apperr.NewMalformed("prompt blocked: "+out.PromptFeedback.BlockReason, resp.String(), nil)
	}
	if len(out.Candidates) == 0 {
		return "", apperr.NewMalformed("reply has no candidates", resp.String(), nil)
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
