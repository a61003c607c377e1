package models

import "fmt"

// ReviewContext holds the structured facts about one product review at the
// time it was read from the store. It is rebuilt on every request and never
// persisted by this service.
type ReviewContext struct {
	CommentID          int64  `json:"comment_id"`
	ProductID          int64  `json:"product_id"`
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description,omitempty"`
	Rating             int    `json:"rating"`
	Comment            string `json:"comment"`
	Author             string `json:"author"`
}

// FormattedRating returns the rating in the "N/5 stars" form used in prompts.
func (c ReviewContext) FormattedRating() string {
	return fmt.Sprintf("%d/5 stars", c.Rating)
}

// TemplateType selects the scenario-specific instruction block for a reply.
type TemplateType string

const (
	TemplateDefault                 TemplateType = "default"
	TemplateEnthusiasticFiveStar    TemplateType = "enthusiastic_five_star"
	TemplatePositiveWithCritique    TemplateType = "positive_with_critique"
	TemplateProductMisunderstanding TemplateType = "product_misunderstanding"
	TemplateDefectiveProduct        TemplateType = "defective_product"
	TemplateShippingIssue           TemplateType = "shipping_issue"
	TemplateValuePriceConcern       TemplateType = "value_price_concern"
)

// AllTemplateTypes returns the closed template catalog in a stable order.
func AllTemplateTypes() []TemplateType {
	return []TemplateType{
		TemplateDefault,
		TemplateEnthusiasticFiveStar,
		TemplatePositiveWithCritique,
		TemplateProductMisunderstanding,
		TemplateDefectiveProduct,
		TemplateShippingIssue,
		TemplateValuePriceConcern,
	}
}

// ParseTemplateType maps a raw string to a TemplateType. The second return
// value is false when the value is not part of the catalog.
func ParseTemplateType(s string) (TemplateType, bool) {
	for _, t := range AllTemplateTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return TemplateDefault, false
}

// MoodType selects the tone-instruction prefix layered on top of a template.
type MoodType string

const (
	MoodEmpatheticProblemSolver MoodType = "empathetic_problem_solver"
	MoodEnthusiasticAppreciator MoodType = "enthusiastic_appreciator"
	MoodProfessionalEducator    MoodType = "professional_educator"
)

// AllMoodTypes returns the closed mood catalog in a stable order.
func AllMoodTypes() []MoodType {
	return []MoodType{
		MoodEmpatheticProblemSolver,
		MoodEnthusiasticAppreciator,
		MoodProfessionalEducator,
	}
}

// ParseMoodType maps a raw string to a MoodType. The second return value is
// false when the value is not part of the catalog.
func ParseMoodType(s string) (MoodType, bool) {
	for _, m := range AllMoodTypes() {
		if string(m) == s {
			return m, true
		}
	}
	return MoodEmpatheticProblemSolver, false
}

// Suggestion is the mood/template pair returned by the sentiment-analysis
// call. Fields that come back missing or unrecognized are replaced with the
// defaults rather than failing the flow.
type Suggestion struct {
	Mood     MoodType     `json:"mood"`
	Template TemplateType `json:"template"`
}

// DefaultSuggestion returns the fallback pair used when the suggestion call
// returns malformed data.
func DefaultSuggestion() Suggestion {
	return Suggestion{
		Mood:     MoodEmpatheticProblemSolver,
		Template: TemplateDefault,
	}
}
