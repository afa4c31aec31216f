package middleware

import (
	"github.com/GoPolymarket/walletgate/internal/pkg/logger"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached with c.Error as an AppError body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := apperrors.Wrap(c.Errors.Last().Err)

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"code", appErr.Type,
			"client_ip", c.ClientIP(),
		}

		if appErr.HTTPStatus >= 500 {
			logger.LogError(c.Request.Context(), appErr, "request failed", logFields...)
		} else {
			logger.Warn(appErr.Message, logFields...)
		}

		if !c.Writer.Written() {
			c.JSON(appErr.HTTPStatus, appErr)
		}
	}
}

// Fail records err for ErrorHandler and writes its JSON body right away, so
// middleware that captures the response (idempotency, audit) sees it.
func Fail(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	_ = c.Error(appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
}
