package middleware

import (
	"net/http"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// ReadOnlyMiddleware lets only safe methods through when enabled.
func ReadOnlyMiddleware(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			Fail(c, apperrors.New(apperrors.ErrReadOnly, "read-only mode enabled", nil))
		}
	}
}
