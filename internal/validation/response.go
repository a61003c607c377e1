package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ResponseValidator turns a raw AI response into a reply safe to insert
// into the admin reply box. Last line of defense against the model echoing
// or generating unsafe markup.
type ResponseValidator struct {
	policy *bluemonday.Policy
}

// NewResponseValidator creates a ResponseValidator with a UGC allow-list:
// basic formatting tags survive, scripts and dangerous attributes do not.
func NewResponseValidator() *ResponseValidator {
	return &ResponseValidator{
		policy: bluemonday.UGCPolicy(),
	}
}

// Validate trims and sanitizes the AI response. An empty result is returned
// as-is; the caller decides whether "no content" is an error.
func (v *ResponseValidator) Validate(aiResponse string) string {
	reply := strings.TrimSpace(aiResponse)
	if reply == "" {
		return ""
	}

	return strings.TrimSpace(v.policy.Sanitize(reply))
}
