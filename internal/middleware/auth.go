package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/GoPolymarket/walletgate/internal/config"
	"github.com/GoPolymarket/walletgate/internal/model"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

const (
	HeaderGatewayKey = "X-Gateway-Key"
	ContextCallerKey = "caller"
)

var anonymous = &model.Caller{ID: "anonymous", Anonymous: true}

// AuthMiddleware resolves the caller from X-Gateway-Key. Without a
// configured key every caller is anonymous; a missing header is only
// accepted when require_api_key is off.
func AuthMiddleware(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(HeaderGatewayKey)
		if apiKey == "" {
			if cfg.RequireAPIKey {
				Fail(c, apperrors.New(apperrors.ErrAuthFailed, "missing API key", nil))
				return
			}
			c.Set(ContextCallerKey, anonymous)
			c.Next()
			return
		}

		if cfg.APIKey == "" {
			c.Set(ContextCallerKey, anonymous)
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(cfg.APIKey)) != 1 {
			Fail(c, apperrors.New(apperrors.ErrAuthFailed, "invalid API key", nil))
			return
		}

		c.Set(ContextCallerKey, &model.Caller{ID: keyFingerprint(apiKey)})
		c.Next()
	}
}

// CallerFrom returns the caller set by AuthMiddleware, or nil.
func CallerFrom(c *gin.Context) *model.Caller {
	if val, ok := c.Get(ContextCallerKey); ok {
		if caller, ok := val.(*model.Caller); ok {
			return caller
		}
	}
	return nil
}

// keyFingerprint names a caller without storing its key.
func keyFingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "key:" + hex.EncodeToString(sum[:6])
}
