package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewreply/internal/responder"
	"github.com/reviewreply/pkg/models"
)

const testSecret = "test-secret"

func TestCallerIdentifierFallsBackToIP(t *testing.T) {
	e := NewServer(0, testSecret, &stubResponder{}).echo

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "ip_203.0.113.9", callerIdentifier(c))

	c.Set(userIDContextKey, int64(7))
	assert.Equal(t, "user_7", callerIdentifier(c))
}

type stubResponder struct {
	reply      string
	suggestion models.Suggestion
	err        error

	singleCalls   int
	twoStageCalls int
	lastRequest   responder.Request
	lastID        string
}

func (s *stubResponder) GenerateReply(_ context.Context, req responder.Request) (string, error) {
	s.singleCalls++
	s.lastRequest = req
	return s.reply, s.err
}

func (s *stubResponder) Suggest(_ context.Context, _ int64, identifier string) (models.Suggestion, error) {
	s.lastID = identifier
	return s.suggestion, s.err
}

func (s *stubResponder) GenerateWithSuggestion(_ context.Context, _ int64, identifier string) (string, models.Suggestion, error) {
	s.twoStageCalls++
	s.lastID = identifier
	return s.reply, s.suggestion, s.err
}

func bearerToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, map[string]any) {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Success, envelope.Data
}

func TestGenerateReplyRequiresAuth(t *testing.T) {
	s := NewServer(0, testSecret, &stubResponder{})

	rec := doRequest(s, http.MethodPost, "/wp-ajax/generate-reply", "", `{"comment_id":42}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	success, data := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, "unauthorized", data["error_type"])
}

func TestGenerateReplyRejectsBadNonce(t *testing.T) {
	s := NewServer(0, testSecret, &stubResponder{})

	body := `{"comment_id":42,"_nonce":"wrong"}`
	rec := doRequest(s, http.MethodPost, "/wp-ajax/generate-reply", bearerToken(t, 7), body)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	success, data := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, "invalid_nonce", data["error_type"])
}

func TestGenerateReplyTwoStage(t *testing.T) {
	stub := &stubResponder{
		reply:      "Thanks so much!",
		suggestion: models.Suggestion{Mood: models.MoodEnthusiasticAppreciator, Template: models.TemplateEnthusiasticFiveStar},
	}
	s := NewServer(0, testSecret, stub)

	nonce := CreateNonce(testSecret, "7")
	body := fmt.Sprintf(`{"comment_id":42,"_nonce":%q}`, nonce)
	rec := doRequest(s, http.MethodPost, "/wp-ajax/generate-reply", bearerToken(t, 7), body)

	assert.Equal(t, http.StatusOK, rec.Code)
	success, data := decodeEnvelope(t, rec)
	assert.True(t, success)
	assert.Equal(t, "Thanks so much!", data["reply"])
	assert.Equal(t, "enthusiastic_five_star", data["template"])
	assert.Equal(t, 1, stub.twoStageCalls)
	assert.Equal(t, 0, stub.singleCalls)
	assert.Equal(t, "user_7", stub.lastID)
}

func TestGenerateReplyExplicitParameters(t *testing.T) {
	stub := &stubResponder{reply: "On it."}
	s := NewServer(0, testSecret, stub)

	nonce := CreateNonce(testSecret, "7")
	body := fmt.Sprintf(`{"comment_id":42,"template":"shipping_issue","mood":"professional_educator","_nonce":%q}`, nonce)
	rec := doRequest(s, http.MethodPost, "/wp-ajax/generate-reply", bearerToken(t, 7), body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.singleCalls)
	assert.Equal(t, 0, stub.twoStageCalls)
	assert.Equal(t, models.TemplateShippingIssue, stub.lastRequest.Template)
	assert.Equal(t, models.MoodProfessionalEducator, stub.lastRequest.Mood)
	assert.Equal(t, "user_7", stub.lastRequest.Identifier)
}

func TestGenerateReplyMapsPipelineErrors(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantType   string
	}{
		{models.NewInvalidReview("comment 42 is not a product review"), http.StatusBadRequest, "invalid_review"},
		{&models.RateLimitError{Message: "rate limit exceeded: too many requests per hour"}, http.StatusTooManyRequests, "rate_limit_exceeded"},
		{models.NewAIFailure("API error: upstream unavailable"), http.StatusInternalServerError, "ai_failure"},
	}

	for _, tc := range cases {
		s := NewServer(0, testSecret, &stubResponder{err: tc.err})

		nonce := CreateNonce(testSecret, "7")
		body := fmt.Sprintf(`{"comment_id":42,"_nonce":%q}`, nonce)
		rec := doRequest(s, http.MethodPost, "/wp-ajax/generate-reply", bearerToken(t, 7), body)

		assert.Equal(t, tc.wantStatus, rec.Code)
		success, data := decodeEnvelope(t, rec)
		assert.False(t, success)
		assert.Equal(t, tc.wantType, data["error_type"])
		assert.Equal(t, tc.err.Error(), data["message"])
	}
}

func TestGenerateReplyErrorHidesDebugContext(t *testing.T) {
	failure := &models.AIFailure{
		Message: "API error: unknown API error",
		Debug:   map[string]string{"body": "raw provider payload"},
	}
	s := NewServer(0, testSecret, &stubResponder{err: failure})

	nonce := CreateNonce(testSecret, "7")
	body := fmt.Sprintf(`{"comment_id":42,"_nonce":%q}`, nonce)
	rec := doRequest(s, http.MethodPost, "/wp-ajax/generate-reply", bearerToken(t, 7), body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "raw provider payload")
}

func TestSuggestParameters(t *testing.T) {
	stub := &stubResponder{
		suggestion: models.Suggestion{Mood: models.MoodEmpatheticProblemSolver, Template: models.TemplateDefectiveProduct},
	}
	s := NewServer(0, testSecret, stub)

	nonce := CreateNonce(testSecret, "7")
	body := fmt.Sprintf(`{"comment_id":42,"_nonce":%q}`, nonce)
	rec := doRequest(s, http.MethodPost, "/wp-ajax/suggest-parameters", bearerToken(t, 7), body)

	assert.Equal(t, http.StatusOK, rec.Code)
	success, data := decodeEnvelope(t, rec)
	assert.True(t, success)
	assert.Equal(t, "empathetic_problem_solver", data["mood"])
	assert.Equal(t, "defective_product", data["template"])
}

func TestGetNonce(t *testing.T) {
	s := NewServer(0, testSecret, &stubResponder{})

	rec := doRequest(s, http.MethodGet, "/wp-ajax/nonce", bearerToken(t, 7), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	success, data := decodeEnvelope(t, rec)
	assert.True(t, success)
	assert.Equal(t, CreateNonce(testSecret, "7"), data["nonce"])
}

func TestVerifyNonce(t *testing.T) {
	nonce := CreateNonce("secret", "7")

	assert.True(t, VerifyNonce("secret", "7", nonce))
	assert.False(t, VerifyNonce("secret", "8", nonce))
	assert.False(t, VerifyNonce("other", "7", nonce))
	assert.False(t, VerifyNonce("secret", "7", "garbage"))
}

func TestHealthEndpointIsPublic(t *testing.T) {
	s := NewServer(0, testSecret, &stubResponder{})

	rec := doRequest(s, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
