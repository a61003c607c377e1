// Package gemini implements the AI client for Google's Gemini
// generateContent API: single-turn, single-part requests with an optional
// caller-supplied generation config.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/reviewreply/internal/ratelimit"
	"github.com/reviewreply/pkg/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GenerationConfig carries the caller-supplied generation options merged
// over the text/plain default. The suggestion call sets a JSON MIME type
// plus a response schema so the model is constrained to the expected shape.
type GenerationConfig struct {
	ResponseMIMEType string         `json:"response_mime_type,omitempty"`
	ResponseSchema   map[string]any `json:"response_schema,omitempty"`
	Temperature      *float64       `json:"temperature,omitempty"`
}

// Request/response wire shapes for generateContent.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content candidateContent `json:"content"`
}

type candidateContent struct {
	Parts []part `json:"parts"`
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Client sends prompts to Gemini and returns the raw response text. It
// consults the rate limiter before touching the network and records the
// request only after a verified non-empty response.
type Client struct {
	apiKey    string
	model     string
	baseURL   string
	transport Transport
	limiter   *ratelimit.Limiter
	genConfig GenerationConfig
}

// NewClient creates a Gemini client. cfg overrides are merged over the
// text/plain default generation config.
func NewClient(apiKey, model string, transport Transport, limiter *ratelimit.Limiter, cfg *GenerationConfig) *Client {
	merged := GenerationConfig{ResponseMIMEType: "text/plain"}
	if cfg != nil {
		if cfg.ResponseMIMEType != "" {
			merged.ResponseMIMEType = cfg.ResponseMIMEType
		}
		merged.ResponseSchema = cfg.ResponseSchema
		merged.Temperature = cfg.Temperature
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &Client{
		apiKey:    apiKey,
		model:     model,
		baseURL:   defaultBaseURL,
		transport: transport,
		limiter:   limiter,
		genConfig: merged,
	}
}

// Get sends the prompt and returns the model's text. identifier is the
// caller's rate-limit key; a quota failure propagates before any network
// call is made.
func (c *Client) Get(ctx context.Context, identifier, prompt string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", models.NewAIFailure("missing Gemini API key")
	}

	if err := c.limiter.Check(ctx, identifier); err != nil {
		return "", err
	}

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", &models.AIFailure{
			Message: "AI returned an empty response",
			Debug:   map[string]string{"prompt": excerpt(prompt)},
		}
	}

	if err := c.limiter.Record(ctx, identifier); err != nil {
		log.Warn().Err(err).Msg("Failed to record AI request for rate limiting")
	}

	return text, nil
}

// generate performs the POST and extracts the first candidate's text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: c.genConfig,
	})
	if err != nil {
		return "", models.NewAIFailure("failed to encode request: %v", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	status, respBody, err := c.transport.Post(ctx, url, body)
	if err != nil {
		return "", models.NewAIFailure("failed to connect to API: %v", err)
	}

	if status != 200 {
		return "", &models.AIFailure{
			Message: "API error: " + providerMessage(respBody),
			Debug: map[string]string{
				"status": fmt.Sprintf("%d", status),
				"body":   excerpt(string(respBody)),
			},
		}
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", &models.AIFailure{
			Message: "invalid JSON response from API",
			Debug:   map[string]string{"body": excerpt(string(respBody))},
		}
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &models.AIFailure{
			Message: "invalid response format from Gemini API",
			Debug:   map[string]string{"body": excerpt(string(respBody))},
		}
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// providerMessage pulls the human-readable message out of the provider's
// error envelope, falling back to a generic message.
func providerMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return "unknown API error"
}

// excerpt truncates debug context so log lines stay readable.
func excerpt(s string) string {
	const max = 500
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
