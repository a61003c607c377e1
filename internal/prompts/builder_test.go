package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewreply/pkg/models"
)

func testReview() models.ReviewContext {
	return models.ReviewContext{
		CommentID:   42,
		ProductID:   7,
		ProductName: "Amazing Widget",
		Rating:      5,
		Comment:     "Love it!",
		Author:      "Jane",
	}
}

func TestBuildPromptContainsReviewFacts(t *testing.T) {
	b := NewBuilder()
	review := testReview()

	for _, template := range models.AllTemplateTypes() {
		for _, mood := range models.AllMoodTypes() {
			prompt := b.BuildPrompt(review, template, mood)

			assert.Contains(t, prompt, "Amazing Widget")
			assert.Contains(t, prompt, "5/5 stars")
			assert.Contains(t, prompt, "Love it!")
			assert.True(t, strings.HasSuffix(prompt, "Your response:"),
				"prompt for %s/%s should end with the response cue", template, mood)
		}
	}
}

func TestBuildPromptMoodPrecedesTemplate(t *testing.T) {
	b := NewBuilder()
	review := testReview()

	prompt := b.BuildPrompt(review, models.TemplateEnthusiasticFiveStar, models.MoodEnthusiasticAppreciator)

	moodIdx := strings.Index(prompt, "Write with genuine enthusiasm and gratitude.")
	templateIdx := strings.Index(prompt, "Write an enthusiastic and grateful reply")

	require.NotEqual(t, -1, moodIdx)
	require.NotEqual(t, -1, templateIdx)
	assert.Less(t, moodIdx, templateIdx)
}

func TestBuildPromptDistinctTemplates(t *testing.T) {
	b := NewBuilder()
	review := testReview()

	seen := map[string]models.TemplateType{}
	for _, template := range models.AllTemplateTypes() {
		prompt := b.BuildPrompt(review, template, models.MoodEmpatheticProblemSolver)
		if prev, dup := seen[prompt]; dup {
			t.Fatalf("templates %s and %s produced the same prompt", prev, template)
		}
		seen[prompt] = template
	}
}

func TestBuildPromptUnknownTemplateFallsBackToDefault(t *testing.T) {
	b := NewBuilder()
	review := testReview()

	prompt := b.BuildPrompt(review, models.TemplateType("bogus"), models.MoodEmpatheticProblemSolver)

	assert.Contains(t, prompt, "Write a professional, friendly, and brand-safe reply")
}

func TestReviewFooterLayout(t *testing.T) {
	footer := reviewFooter(testReview())

	assert.Equal(t, "\n\nProduct: Amazing Widget\nRating: 5/5 stars\nReview: Love it!\n\nYour response:", footer)
}

func TestBuildSuggestionPrompt(t *testing.T) {
	b := NewBuilder()
	review := testReview()
	review.Rating = 2
	review.Comment = "Broke after a week."

	prompt := b.BuildSuggestionPrompt(review)

	for _, mood := range models.AllMoodTypes() {
		assert.Contains(t, prompt, string(mood))
	}
	for _, template := range models.AllTemplateTypes() {
		assert.Contains(t, prompt, string(template))
	}
	assert.Contains(t, prompt, "Rating: 2/5 stars")
	assert.Contains(t, prompt, "Broke after a week.")
	assert.Contains(t, prompt, `{"mood": "suggested_mood", "template": "suggested_template"}`)
	assert.Contains(t, prompt, "Only return the JSON object.")
}
