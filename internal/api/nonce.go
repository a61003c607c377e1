package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// nonceAction scopes nonces to the reply-generation endpoints.
const nonceAction = "generate_ai_response"

// CreateNonce derives the per-user nonce for the reply endpoints. Nonces
// are deterministic per secret and subject, so the browser can fetch one
// and reuse it for the session.
func CreateNonce(secret, subject string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonceAction + ":" + subject))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyNonce checks a submitted nonce in constant time.
func VerifyNonce(secret, subject, nonce string) bool {
	expected := CreateNonce(secret, subject)
	return hmac.Equal([]byte(expected), []byte(nonce))
}
