// Package validation sanitizes review input before it reaches the AI
// provider and validates both reviews and AI responses.
//
// WordPress sanitizes on input and escapes on output, but review comments
// can still carry limited HTML, entities, shortcodes, odd whitespace, and
// PII. All of it has to be normalized before being embedded in a prompt.
package validation

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/reviewreply/pkg/models"
)

// DefaultMaxChars caps AI input text to control token usage.
const DefaultMaxChars = 8000

// truncationMarker is appended when a field is cut at the character cap.
const truncationMarker = "…"

var (
	// Shortcode names are restricted to [a-zA-Z0-9_] so redaction
	// placeholders like "[redacted-email]" survive a second pass.
	shortcodeRe = regexp.MustCompile(`\[/?[a-zA-Z][a-zA-Z0-9_]*(\s[^\]]*)?\]`)

	crRe       = regexp.MustCompile(`\r\n?`)
	multiNLRe  = regexp.MustCompile(`\n+`)
	spaceTabRe = regexp.MustCompile(`[ \t]+`)
	anySpaceRe = regexp.MustCompile(`[\r\n\t ]+`)

	// Best-effort PII patterns. These are approximations, not a guarantee
	// of complete redaction.
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	urlRe   = regexp.MustCompile(`(?i)https?://\S+`)
)

// Sanitizer normalizes review context fields for AI consumption. The output
// is used only for outbound requests and never written back to the store.
type Sanitizer struct {
	maxChars int
	strip    *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer with the given character cap. A cap of
// zero or less falls back to DefaultMaxChars.
func NewSanitizer(maxChars int) *Sanitizer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Sanitizer{
		maxChars: maxChars,
		strip:    bluemonday.StrictPolicy(),
	}
}

// Sanitize returns a cleaned copy of the review context. The comment keeps
// its line structure; the product name is collapsed to a single line. The
// rating passes through unchanged; range checks belong to the review
// validator.
func (s *Sanitizer) Sanitize(ctx models.ReviewContext) models.ReviewContext {
	out := ctx
	out.Comment = s.normalizeText(ctx.Comment)
	out.ProductName = s.normalizeInline(ctx.ProductName)
	return out
}

// normalizeText cleans multi-line text: shortcodes and tags out, entities
// decoded, whitespace and control characters normalized, PII redacted, and
// the result capped at maxChars.
func (s *Sanitizer) normalizeText(text string) string {
	text = s.basicText(text, false)

	// Remove control characters except newlines and tabs.
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)

	// Lightweight PII redaction. "Contact me at john@example.com" becomes
	// "Contact me at [redacted-email]".
	text = emailRe.ReplaceAllString(text, "[redacted-email]")
	text = urlRe.ReplaceAllString(text, "[redacted-url]")

	if utf8.RuneCountInString(text) > s.maxChars {
		runes := []rune(text)
		text = string(runes[:s.maxChars]) + truncationMarker
	}

	return text
}

// normalizeInline cleans a short single-line string such as a product name.
// Line breaks collapse into single spaces and the result is trimmed.
func (s *Sanitizer) normalizeInline(text string) string {
	return strings.TrimSpace(s.basicText(text, true))
}

// basicText removes shortcodes and HTML tags, decodes entities, and
// normalizes whitespace. When collapseBreaks is true all whitespace runs,
// including newlines, become single spaces.
func (s *Sanitizer) basicText(text string, collapseBreaks bool) string {
	text = shortcodeRe.ReplaceAllString(text, "")

	// The strict policy drops every tag and the contents of script and
	// style elements, entity-encoding what remains.
	text = s.strip.Sanitize(text)
	text = html.UnescapeString(text)

	if collapseBreaks {
		text = anySpaceRe.ReplaceAllString(text, " ")
		return text
	}

	text = crRe.ReplaceAllString(text, "\n")
	text = multiNLRe.ReplaceAllString(text, "\n")
	text = spaceTabRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
