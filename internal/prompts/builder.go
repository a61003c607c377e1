// Package prompts assembles the natural-language prompts sent to the AI
// provider: a mood-wrapped scenario template for reply generation, and a
// separate sentiment-analysis prompt that asks the model to pick the
// template/mood pair itself.
package prompts

import (
	"fmt"
	"strings"

	"github.com/reviewreply/pkg/models"
)

// Builder composes prompts from a sanitized review context. Templates and
// moods are stateless functions dispatched on the enum value, so Builder
// itself holds no state.
type Builder struct{}

// NewBuilder creates a prompt Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildPrompt renders the template for the review and wraps it in the mood:
// the mood prefix always precedes the template body.
func (b *Builder) BuildPrompt(ctx models.ReviewContext, template models.TemplateType, mood models.MoodType) string {
	base := templatePrompt(template, ctx)
	return applyMood(mood, base, ctx)
}

// BuildSuggestionPrompt produces the sentiment-analysis prompt. It is a
// distinct code path from reply generation: it enumerates every valid mood
// and template inline so the model only picks from the closed set, and it
// demands a bare JSON object as the answer.
func (b *Builder) BuildSuggestionPrompt(ctx models.ReviewContext) string {
	moods := make([]string, 0, len(models.AllMoodTypes()))
	for _, m := range models.AllMoodTypes() {
		moods = append(moods, string(m))
	}

	templates := make([]string, 0, len(models.AllTemplateTypes()))
	for _, t := range models.AllTemplateTypes() {
		templates = append(templates, string(t))
	}

	return fmt.Sprintf(`You are a WooCommerce support agent. Your task is to analyze the sentiment of a customer review and suggest the best tone and response template for replying.

The available moods are: '%s'.
The available templates are: '%s'.

Based on the following review, please suggest the most appropriate mood and template.

Review:
Rating: %s
Product: %s
Comment: %s

Your response must be in JSON format, like this:
{"mood": "suggested_mood", "template": "suggested_template"}

For example:
{"mood": "empathetic_problem_solver", "template": "defective_product"}

Only return the JSON object. Do not include any other text or explanation.`,
		strings.Join(moods, ", "),
		strings.Join(templates, ", "),
		ctx.FormattedRating(),
		ctx.ProductName,
		ctx.Comment,
	)
}
