// Package llm wraps the generative text model behind a single structured call.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lingopath/backend/internal/apperr"
	"go.uber.org/zap"
)

// Generator is a text-completion provider: one prompt in, free-form text out.
type Generator interface {
	// Generate sends prompt to the model and returns its raw reply.
	//
	// Network failures and non-2xx replies are returned as *apperr.TransportError.
	Generate(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier used for requests.
	Model() string
}

// Gateway turns a prompt into a parsed JSON value. It does not retry.
type Gateway struct {
	gen    Generator
	logger *zap.Logger
}

// NewGateway creates a new model gateway
func NewGateway(gen Generator, logger *zap.Logger) *Gateway {
	return &Gateway{
		gen:    gen,
		logger: logger,
	}
}

// GenerateStructured sends prompt to the model and returns the JSON value
// embedded in its reply.
func (g *Gateway) GenerateStructured(ctx context.Context, prompt string) (json.RawMessage, error) {
	start := time.Now()
	text, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("model replied",
		zap.String("model", g.gen.Model()),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("reply_chars", len(text)),
		zap.Duration("duration", time.Since(start)),
	)

	if strings.TrimSpace(text) == "" {
		return nil, apperr.NewMalformed("empty model reply", text, nil)
	}

	payload, err := ExtractJSON(text)
	if err != nil {
		g.logger.Warn("model reply carried no JSON", zap.String("raw", text))
		return nil, err
	}
	return payload, nil
}

// Decode unmarshals a structured reply into dst, reporting failures as
// malformed model output so the retry controller treats them alike.
func Decode(payload json.RawMessage, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return apperr.NewMalformed(fmt.Sprintf("reply does not match %T", dst), string(payload), err)
	}
	return nil
}
