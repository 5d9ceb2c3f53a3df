// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the API-key check applied to write endpoints. The
// authenticator compares the credential presented in the X-API-Key header
// against the single secret configured at startup. There are no sessions,
// expiry, or per-key scopes; this is a static shared-secret gate, not an
// identity system.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the request header carrying the caller's credential.
const APIKeyHeader = "X-API-Key"

// Authentication failure messages, stable for clients.
const (
	MsgAPIKeyRequired = "API key is required"
	MsgAPIKeyInvalid  = "Invalid API key"
)

// APIKeyAuth returns a Gin middleware that rejects requests lacking a valid
// API key.
//
// A missing header yields 401 "API key is required"; a mismatch yields 401
// "Invalid API key". The comparison is constant-time so the check leaks no
// timing information about the secret. On success the request proceeds with
// no side effects.
//
// The error body follows the API's uniform shape:
//
//	{ "requestId": "...", "error": "Invalid API key" }
func APIKeyAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := strings.TrimSpace(c.GetHeader(APIKeyHeader))
		if presented == "" {
			unauthorized(c, MsgAPIKeyRequired)
			return
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			unauthorized(c, MsgAPIKeyInvalid)
			return
		}
		c.Next()
	}
}

// unauthorized aborts the request with a 401 in the uniform error shape.
func unauthorized(c *gin.Context, msg string) {
	rid, _ := c.Get(requestIDKey)
	LoggerFrom(c).Warn().Str("reason", msg).Msg("api key rejected")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"requestId": asString(rid),
		"error":     msg,
	})
}
