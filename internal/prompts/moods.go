package prompts

import (
	"github.com/reviewreply/pkg/models"
)

// applyMood prepends the mood's tone-setting instructions to the base
// prompt. Moods are pure: the same mood always produces the same prefix.
// The context parameter is part of the signature so moods can become
// context-aware later without changing callers.
func applyMood(m models.MoodType, prompt string, _ models.ReviewContext) string {
	return moodPrefix(m) + prompt
}

func moodPrefix(m models.MoodType) string {
	switch m {
	case models.MoodEnthusiasticAppreciator:
		return "Write with genuine enthusiasm and gratitude. Express sincere appreciation for their positive feedback. " +
			"Celebrate their experience and highlight what made it special. Use an upbeat, joyful tone that matches their satisfaction. " +
			"Encourage them to share their experience and invite them back for future purchases. "

	case models.MoodProfessionalEducator:
		return "Write with patience and professionalism. Address any misconceptions clearly and helpfully. " +
			"Provide clear, accurate information without being condescending. Use an informative, supportive tone. " +
			"Focus on education and clarification while maintaining respect for the customer's perspective. "

	default:
		return "Write with genuine empathy and understanding. Acknowledge the customer's frustration and validate their experience. " +
			"Focus on finding solutions and making things right. Use a warm, caring tone that shows you truly care about their satisfaction. " +
			"Demonstrate accountability and commitment to improvement. "
	}
}
