package validation

import (
	"strings"

	"github.com/reviewreply/pkg/models"
)

// ReviewValidator enforces the business rules a review must satisfy before
// any of its content is used to build a prompt. This is the single gate
// between arbitrary review content and content sent to the AI provider.
type ReviewValidator struct{}

// NewReviewValidator creates a ReviewValidator.
func NewReviewValidator() *ReviewValidator {
	return &ReviewValidator{}
}

// ValidateForAI returns an InvalidReviewError when the review cannot be
// processed: empty comment after trimming, or rating outside [1,5].
func (v *ReviewValidator) ValidateForAI(ctx models.ReviewContext) error {
	if strings.TrimSpace(ctx.Comment) == "" {
		return models.NewInvalidReview("review is missing a comment")
	}

	if ctx.Rating < 1 || ctx.Rating > 5 {
		return models.NewInvalidReview("rating must be between 1 and 5")
	}

	return nil
}
