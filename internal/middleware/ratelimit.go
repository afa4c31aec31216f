package middleware

import (
	"sync"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CallerLimiter hands out one token bucket per caller.
type CallerLimiter struct {
	qps      rate.Limit
	burst    int
	limiters sync.Map // callerID -> *rate.Limiter
}

// NewCallerLimiter returns nil when qps is zero, which disables limiting.
func NewCallerLimiter(qps float64, burst int) *CallerLimiter {
	if qps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &CallerLimiter{qps: rate.Limit(qps), burst: burst}
}

func (l *CallerLimiter) For(callerID string) *rate.Limiter {
	if v, ok := l.limiters.Load(callerID); ok {
		return v.(*rate.Limiter)
	}
	v, _ := l.limiters.LoadOrStore(callerID, rate.NewLimiter(l.qps, l.burst))
	return v.(*rate.Limiter)
}

// RateLimitMiddleware must run after AuthMiddleware.
func RateLimitMiddleware(limiter *CallerLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		caller := CallerFrom(c)
		if caller == nil {
			Fail(c, apperrors.New(apperrors.ErrAuthFailed, "unauthorized", nil))
			return
		}

		if !limiter.For(caller.ID).Allow() {
			c.Header("Retry-After", "1")
			Fail(c, apperrors.New(apperrors.ErrRateLimited, "rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
