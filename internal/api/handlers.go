package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/reviewreply/internal/ratelimit"
	"github.com/reviewreply/internal/responder"
	"github.com/reviewreply/pkg/models"
)

// generateReplyRequest is the admin-ajax payload. Template and mood are
// optional; when both are absent the service asks the model to pick them.
type generateReplyRequest struct {
	CommentID int64  `json:"comment_id"`
	Template  string `json:"template"`
	Mood      string `json:"mood"`
	Nonce     string `json:"_nonce"`
}

type suggestRequest struct {
	CommentID int64  `json:"comment_id"`
	Nonce     string `json:"_nonce"`
}

// callerIdentifier derives the rate-limit identity: the authenticated user
// when present, the client IP otherwise.
func callerIdentifier(c echo.Context) string {
	if id := userID(c); id > 0 {
		return ratelimit.UserIdentifier(id)
	}
	return ratelimit.IPIdentifier(c.Request())
}

// getNonce hands the browser its nonce for the reply endpoints.
func (s *Server) getNonce(c echo.Context) error {
	subject := fmt.Sprintf("%d", userID(c))
	return successJSON(c, map[string]string{
		"nonce": CreateNonce(s.jwtSecret, subject),
	})
}

// generateReply runs the pipeline for one review. With an explicit template
// and mood it does a single generation call; otherwise it runs the
// two-stage flow and reports which parameters the model chose.
func (s *Server) generateReply(c echo.Context) error {
	var req generateReplyRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, models.ErrorInvalidReview, "invalid request body")
	}

	if !VerifyNonce(s.jwtSecret, fmt.Sprintf("%d", userID(c)), req.Nonce) {
		return errorJSON(c, models.ErrorInvalidNonce, "Security check failed")
	}

	if req.CommentID <= 0 {
		return errorJSON(c, models.ErrorInvalidReview, "comment_id is required")
	}

	identifier := callerIdentifier(c)
	ctx := c.Request().Context()

	var (
		reply      string
		suggestion models.Suggestion
		err        error
	)

	if req.Template == "" && req.Mood == "" {
		reply, suggestion, err = s.responder.GenerateWithSuggestion(ctx, req.CommentID, identifier)
	} else {
		// Unknown values degrade to the defaults rather than failing.
		template, _ := models.ParseTemplateType(req.Template)
		mood, _ := models.ParseMoodType(req.Mood)
		suggestion = models.Suggestion{Mood: mood, Template: template}
		reply, err = s.responder.GenerateReply(ctx, responder.Request{
			CommentID:  req.CommentID,
			Template:   template,
			Mood:       mood,
			Identifier: identifier,
		})
	}

	if err != nil {
		return pipelineError(c, err)
	}

	return successJSON(c, map[string]any{
		"reply":    reply,
		"template": suggestion.Template,
		"mood":     suggestion.Mood,
	})
}

// suggestParameters runs only the sentiment-analysis stage.
func (s *Server) suggestParameters(c echo.Context) error {
	var req suggestRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, models.ErrorInvalidReview, "invalid request body")
	}

	if !VerifyNonce(s.jwtSecret, fmt.Sprintf("%d", userID(c)), req.Nonce) {
		return errorJSON(c, models.ErrorInvalidNonce, "Security check failed")
	}

	if req.CommentID <= 0 {
		return errorJSON(c, models.ErrorInvalidReview, "comment_id is required")
	}

	suggestion, err := s.responder.Suggest(c.Request().Context(), req.CommentID, callerIdentifier(c))
	if err != nil {
		return pipelineError(c, err)
	}

	return successJSON(c, map[string]any{
		"mood":     suggestion.Mood,
		"template": suggestion.Template,
	})
}

// successJSON renders the admin-ajax success envelope.
func successJSON(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// errorJSON renders the admin-ajax error envelope with the status code
// mapped from the error type.
func errorJSON(c echo.Context, errorType models.ErrorType, message string) error {
	return c.JSON(errorType.HTTPStatus(), map[string]any{
		"success": false,
		"data": map[string]any{
			"error_type": errorType,
			"message":    message,
		},
	})
}

// pipelineError classifies a pipeline failure and renders it. Provider
// debug context goes to the log only, never to the client.
func pipelineError(c echo.Context, err error) error {
	errorType := models.Classify(err)

	event := log.Error().Str("error_type", string(errorType)).Err(err)
	var failure *models.AIFailure
	if errors.As(err, &failure) {
		for k, v := range failure.Debug {
			event = event.Str("debug_"+k, v)
		}
	}
	event.Msg("Reply generation failed")

	return errorJSON(c, errorType, err.Error())
}
