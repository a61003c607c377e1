package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/reviewreply/pkg/models"
)

// userIDContextKey is the echo context key holding the authenticated user's
// id.
const userIDContextKey = "user_id"

// RequireAuth validates the Bearer token on every request. The token's
// subject is the WordPress user id; it becomes the caller's identity for
// nonces and rate limiting.
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return errorJSON(c, models.ErrorUnauthorized, "Authorization header required")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return errorJSON(c, models.ErrorUnauthorized, "Invalid authorization header format")
			}

			userID, err := parseUserToken(tokenParts[1], secret)
			if err != nil {
				return errorJSON(c, models.ErrorUnauthorized, "Invalid or expired token")
			}

			c.Set(userIDContextKey, userID)
			return next(c)
		}
	}
}

// parseUserToken validates the HMAC signature and extracts the user id from
// the subject claim.
func parseUserToken(tokenString, secret string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("invalid subject claim")
	}

	return userID, nil
}

// userID extracts the authenticated user's id from the echo context.
func userID(c echo.Context) int64 {
	id, _ := c.Get(userIDContextKey).(int64)
	return id
}
