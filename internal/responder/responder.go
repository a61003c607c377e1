// Package responder orchestrates the reply pipeline: load the review,
// validate and sanitize it, build the prompt, call the AI provider, and
// validate the reply. The two-stage flow first asks the model to suggest a
// template/mood pair, then generates with that pair.
package responder

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"

	"github.com/reviewreply/internal/ai/gemini"
	"github.com/reviewreply/internal/metrics"
	"github.com/reviewreply/internal/prompts"
	"github.com/reviewreply/internal/validation"
	"github.com/reviewreply/pkg/models"
)

// Reviews loads review contexts from the comment store.
type Reviews interface {
	GetByID(ctx context.Context, commentID int64) (models.ReviewContext, error)
}

// AIClient sends a prompt and returns the model's text.
type AIClient interface {
	Get(ctx context.Context, identifier, prompt string) (string, error)
}

// ClientFactory builds AI clients with per-call generation configs.
type ClientFactory interface {
	Create(cfg *gemini.GenerationConfig) AIClient
}

// Request names the review and generation parameters for a single reply.
// Identifier is the caller's rate-limit key.
type Request struct {
	CommentID  int64
	Template   models.TemplateType
	Mood       models.MoodType
	Identifier string
}

// Responder runs the generation pipeline.
type Responder struct {
	reviews     Reviews
	validator   *validation.ReviewValidator
	sanitizer   *validation.Sanitizer
	builder     *prompts.Builder
	factory     ClientFactory
	response    *validation.ResponseValidator
	temperature *float64
	stepLog     func(format string, args ...any)
}

// Option configures a Responder.
type Option func(*Responder)

// WithTemperature sets the sampling temperature for all generation calls.
func WithTemperature(t float64) Option {
	return func(r *Responder) {
		r.temperature = &t
	}
}

// WithStepLogger installs a human-readable progress callback. The CLI test
// command uses it to narrate each pipeline stage.
func WithStepLogger(fn func(format string, args ...any)) Option {
	return func(r *Responder) {
		r.stepLog = fn
	}
}

// New creates a Responder.
func New(reviews Reviews, sanitizer *validation.Sanitizer, factory ClientFactory, opts ...Option) *Responder {
	r := &Responder{
		reviews:   reviews,
		validator: validation.NewReviewValidator(),
		sanitizer: sanitizer,
		builder:   prompts.NewBuilder(),
		factory:   factory,
		response:  validation.NewResponseValidator(),
		stepLog:   func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GenerateReply runs the single-shot pipeline with the caller's template and
// mood. The returned reply has already passed response validation.
func (r *Responder) GenerateReply(ctx context.Context, req Request) (string, error) {
	review, err := r.loadReview(ctx, req.CommentID)
	if err != nil {
		return "", err
	}
	return r.generate(ctx, review, req)
}

// Suggest asks the model for the template/mood pair that best fits the
// review. Malformed or unknown answers degrade to the defaults; Suggest only
// fails when the review itself is invalid or the provider call fails.
func (r *Responder) Suggest(ctx context.Context, commentID int64, identifier string) (models.Suggestion, error) {
	review, err := r.loadReview(ctx, commentID)
	if err != nil {
		return models.Suggestion{}, err
	}
	return r.suggest(ctx, review, identifier)
}

// GenerateWithSuggestion runs the two-stage flow: suggest parameters, then
// generate the reply with them.
func (r *Responder) GenerateWithSuggestion(ctx context.Context, commentID int64, identifier string) (string, models.Suggestion, error) {
	review, err := r.loadReview(ctx, commentID)
	if err != nil {
		return "", models.Suggestion{}, err
	}

	suggestion, err := r.suggest(ctx, review, identifier)
	if err != nil {
		return "", models.Suggestion{}, err
	}

	r.stepLog("Suggested mood: %s, template: %s", suggestion.Mood, suggestion.Template)

	// Second pass between stages; both checks are idempotent so clean
	// input passes through unchanged.
	if err := r.validator.ValidateForAI(review); err != nil {
		r.countFailure(err)
		return "", suggestion, err
	}
	review = r.sanitizer.Sanitize(review)

	reply, err := r.generate(ctx, review, Request{
		CommentID:  commentID,
		Template:   suggestion.Template,
		Mood:       suggestion.Mood,
		Identifier: identifier,
	})
	if err != nil {
		return "", suggestion, err
	}

	return reply, suggestion, nil
}

// loadReview fetches, validates, and sanitizes the review context.
func (r *Responder) loadReview(ctx context.Context, commentID int64) (models.ReviewContext, error) {
	r.stepLog("Fetching review %d...", commentID)

	review, err := r.reviews.GetByID(ctx, commentID)
	if err != nil {
		r.countFailure(err)
		return models.ReviewContext{}, err
	}

	if err := r.validator.ValidateForAI(review); err != nil {
		r.countFailure(err)
		return models.ReviewContext{}, err
	}

	review = r.sanitizer.Sanitize(review)
	r.stepLog("Review loaded: %q (%s)", review.ProductName, review.FormattedRating())

	return review, nil
}

func (r *Responder) generate(ctx context.Context, review models.ReviewContext, req Request) (string, error) {
	prompt := r.builder.BuildPrompt(review, req.Template, req.Mood)

	log.Debug().
		Int64("comment_id", req.CommentID).
		Str("template", string(req.Template)).
		Str("mood", string(req.Mood)).
		Msg("Generating AI reply")
	r.stepLog("Generating reply with template %s, mood %s...", req.Template, req.Mood)

	client := r.factory.Create(r.textConfig())
	raw, err := client.Get(ctx, req.Identifier, prompt)
	if err != nil {
		r.countFailure(err)
		return "", err
	}

	reply := r.response.Validate(raw)
	metrics.Generations.WithLabelValues("ok").Inc()
	r.stepLog("Reply generated (%d chars)", len(reply))

	return reply, nil
}

func (r *Responder) suggest(ctx context.Context, review models.ReviewContext, identifier string) (models.Suggestion, error) {
	prompt := r.builder.BuildSuggestionPrompt(review)

	r.stepLog("Requesting mood/template suggestion...")

	client := r.factory.Create(r.suggestionConfig())
	raw, err := client.Get(ctx, identifier, prompt)
	if err != nil {
		r.countFailure(err)
		return models.Suggestion{}, err
	}

	return r.parseSuggestion(raw), nil
}

// parseSuggestion decodes the model's JSON answer. It never fails: broken
// JSON goes through repair, and unknown or missing fields fall back to the
// default mood and template per field.
func (r *Responder) parseSuggestion(raw string) models.Suggestion {
	var parsed struct {
		Mood     string `json:"mood"`
		Template string `json:"template"`
	}

	text := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil || json.Unmarshal([]byte(repaired), &parsed) != nil {
			log.Warn().Str("response", text).Msg("Unparseable suggestion response, using defaults")
			metrics.SuggestionFallbacks.Inc()
			return models.DefaultSuggestion()
		}
	}

	fallback := models.DefaultSuggestion()

	mood, moodOK := models.ParseMoodType(parsed.Mood)
	if !moodOK {
		mood = fallback.Mood
	}
	template, templateOK := models.ParseTemplateType(parsed.Template)
	if !templateOK {
		template = fallback.Template
	}

	if !moodOK || !templateOK {
		log.Warn().
			Str("mood", parsed.Mood).
			Str("template", parsed.Template).
			Msg("Unknown suggestion values, using defaults")
		metrics.SuggestionFallbacks.Inc()
	}

	return models.Suggestion{Mood: mood, Template: template}
}

func (r *Responder) textConfig() *gemini.GenerationConfig {
	if r.temperature == nil {
		return nil
	}
	return &gemini.GenerationConfig{Temperature: r.temperature}
}

func (r *Responder) suggestionConfig() *gemini.GenerationConfig {
	return &gemini.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"mood":     map[string]any{"type": "string"},
				"template": map[string]any{"type": "string"},
			},
			"required": []string{"mood", "template"},
		},
		Temperature: r.temperature,
	}
}

func (r *Responder) countFailure(err error) {
	var limited *models.RateLimitError
	if errors.As(err, &limited) {
		metrics.RateLimitRejections.Inc()
	}
	metrics.Generations.WithLabelValues(string(models.Classify(err))).Inc()
}
