package prompts

import (
	"fmt"

	"github.com/reviewreply/pkg/models"
)

// templatePrompt renders the scenario-specific instruction block for the
// given template followed by the structured review footer. The catalog is
// closed: adding a TemplateType without an arm here is a bug the linter's
// exhaustiveness check should catch.
func templatePrompt(t models.TemplateType, ctx models.ReviewContext) string {
	var instructions string

	switch t {
	case models.TemplateEnthusiasticFiveStar:
		instructions = "Write an enthusiastic and grateful reply to this 5-star review. " +
			"Express genuine appreciation for the customer's positive feedback and their specific praise. " +
			"Match their enthusiasm while maintaining professionalism. " +
			"Encourage them to share their experience with others and invite them to explore more products. " +
			"Keep the response warm, personal, and celebratory (2-3 sentences)."

	case models.TemplatePositiveWithCritique:
		instructions = "Write a thoughtful reply to this positive review that includes minor constructive feedback. " +
			"First, express genuine appreciation for their positive comments and high rating. " +
			"Then, acknowledge their specific concerns or suggestions with empathy and understanding. " +
			"Offer to address their feedback and explain how their input helps improve the product or service. " +
			"Maintain a grateful and professional tone while showing that you value their constructive criticism (3-4 sentences)."

	case models.TemplateProductMisunderstanding:
		instructions = "Write a helpful and educational reply to this review that appears to misunderstand the product. " +
			"Politely clarify any misconceptions about the product's features, usage, or intended purpose. " +
			"Provide helpful information that addresses their concerns while being respectful of their experience. " +
			"Offer additional resources or support if they need help understanding how to use the product effectively. " +
			"Maintain a patient and understanding tone, acknowledging that product information can sometimes be unclear (3-4 sentences)."

	case models.TemplateDefectiveProduct:
		instructions = "Write a sincere and solution-focused reply to this review about a defective product. " +
			"Express genuine concern and apologize for the inconvenience caused by the defective item. " +
			"Acknowledge their frustration and take responsibility for the quality issue. " +
			"Offer immediate solutions such as replacement, refund, or repair options. " +
			"Provide clear next steps for resolution and contact information for customer service. " +
			"Maintain a professional, empathetic tone that prioritizes customer satisfaction (4-5 sentences)."

	case models.TemplateShippingIssue:
		instructions = "Write a understanding and proactive reply to this review about shipping delays or issues. " +
			"Acknowledge the inconvenience caused by the shipping problem and express genuine concern. " +
			"Explain that shipping delays can occur due to various factors beyond your direct control, but take responsibility for the customer experience. " +
			"Offer solutions such as expedited shipping for future orders, shipping refunds, or compensation where appropriate. " +
			"Provide information about how to track orders and contact customer service for shipping inquiries. " +
			"Maintain a professional tone while showing empathy for their frustration (4-5 sentences)."

	case models.TemplateValuePriceConcern:
		instructions = "Write a confident and reassuring reply to this review that questions the product's value for its price. " +
			"Acknowledge their concern about pricing and thank them for their honest feedback. " +
			"Justify the price by highlighting the product's superior quality, craftsmanship, and unique features that provide long-term value. " +
			"Offer to help them get the most value out of their purchase. " +
			"As a token of appreciation, provide a limited-time loyalty discount for their next purchase. " +
			"Maintain a professional and appreciative tone, reinforcing the brand's commitment to quality and customer value (4-5 sentences)."

	default:
		instructions = "Write a professional, friendly, and brand-safe reply to this product review. " +
			"Keep the response concise (2-3 sentences), maintain a positive tone, and address the customer's feedback appropriately. " +
			"If the review mentions specific issues, acknowledge them and offer helpful solutions. " +
			"Always thank the customer for their feedback."
	}

	return instructions + reviewFooter(ctx)
}

// reviewFooter is the fixed-format block carrying the review's structured
// facts. The field labels, ordering, and "N/5 stars" format are the only
// structured signal the model receives about the review being answered, so
// the layout must not drift.
func reviewFooter(ctx models.ReviewContext) string {
	return fmt.Sprintf("\n\nProduct: %s\nRating: %s\nReview: %s\n\nYour response:",
		ctx.ProductName, ctx.FormattedRating(), ctx.Comment)
}
