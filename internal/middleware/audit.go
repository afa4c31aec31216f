package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/GoPolymarket/walletgate/internal/model"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextAuditLog = "audit_log"
	HeaderRequestID = "X-Request-ID"

	maxAuditBody   = 64 << 10
	maxRequestBody = 1 << 20
)

// bodyLogWriter tees the response body into a buffer.
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func AuditMiddleware(auditSvc *service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.New().String()
		c.Header(HeaderRequestID, reqID)

		var reqBodyBytes []byte
		var readErr error
		if c.Request.Body != nil {
			reqBodyBytes, readErr = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBodyBytes))
		}

		auditEntry := &model.AuditLog{
			ID:            reqID,
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			IP:            c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			RequestHeader: auditHeaders(c),
			CreatedAt:     start.UTC(),
			Context:       make(map[string]interface{}),
		}
		c.Set(ContextAuditLog, auditEntry)

		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		if readErr != nil {
			Fail(c, apperrors.New(apperrors.ErrInvalidRequest, "request body unreadable or larger than 1 MiB", readErr))
		} else {
			c.Next()
		}

		if caller := CallerFrom(c); caller != nil {
			auditEntry.CallerID = caller.ID
		}
		auditEntry.RequestBody = redactAuditBody(c.Request.URL.Path, reqBodyBytes)
		auditEntry.StatusCode = c.Writer.Status()
		auditEntry.ResponseBody = redactAuditBody(c.Request.URL.Path, blw.body.Bytes())
		auditEntry.LatencyMs = time.Since(start).Milliseconds()

		auditSvc.Log(auditEntry)
	}
}

// AddAuditContext attaches a business field to the current request's audit entry.
func AddAuditContext(c *gin.Context, key string, value interface{}) {
	if val, exists := c.Get(ContextAuditLog); exists {
		if entry, ok := val.(*model.AuditLog); ok {
			entry.Context[key] = value
		}
	}
}

func auditHeaders(c *gin.Context) string {
	parts := make([]string, 0, 2)
	if v := c.GetHeader(HeaderIdempotencyKey); v != "" {
		parts = append(parts, HeaderIdempotencyKey+"="+v)
	}
	if c.GetHeader(HeaderGatewayKey) != "" {
		parts = append(parts, HeaderGatewayKey+"=***")
	}
	return strings.Join(parts, "; ")
}

func redactAuditBody(path string, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if !isSensitivePath(path) {
		return truncate(string(body))
	}
	redacted, ok := redactJSON(body)
	if !ok {
		return "[redacted]"
	}
	return truncate(string(redacted))
}

// truncate cuts s to maxAuditBody bytes without splitting a UTF-8 sequence.
func truncate(s string) string {
	if len(s) <= maxAuditBody {
		return s
	}
	cut := maxAuditBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...[truncated]"
}

func isSensitivePath(path string) bool {
	return strings.HasPrefix(path, "/v1/")
}

func redactJSON(body []byte) ([]byte, bool) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, false
	}
	redactValue(&data)
	out, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	return out, true
}

func redactValue(v *interface{}) {
	switch raw := (*v).(type) {
	case map[string]interface{}:
		for key, val := range raw {
			if isSensitiveKey(key) {
				raw[key] = "***"
				continue
			}
			vv := val
			redactValue(&vv)
			raw[key] = vv
		}
	case []interface{}:
		for i, val := range raw {
			vv := val
			redactValue(&vv)
			raw[i] = vv
		}
	}
}

func isSensitiveKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "token",
		"authorization",
		"api_key",
		"apikey",
		"private_key",
		"signature",
		"sig":
		return true
	default:
		return false
	}
}
