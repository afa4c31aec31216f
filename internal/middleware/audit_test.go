package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactAuditBodyTransactions(t *testing.T) {
	body := []byte(`{"result":{"transactionHash":"AB","transaction":{"signature":{"value":"dead","algo":"vega/ed25519"}}},"token":"t","nested":[{"Authorization":"VWT x"}]}`)
	out := redactAuditBody("/v1/transactions", body)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, "***", data["token"])

	result := data["result"].(map[string]interface{})
	assert.Equal(t, "AB", result["transactionHash"])
	tx := result["transaction"].(map[string]interface{})
	assert.Equal(t, "***", tx["signature"])

	nested := data["nested"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "***", nested["Authorization"])
}

func TestRedactAuditBodyNonSensitivePath(t *testing.T) {
	body := []byte(`{"token":"visible"}`)
	assert.Equal(t, string(body), redactAuditBody("/health", body))
}

func TestRedactAuditBodyInvalidJSON(t *testing.T) {
	assert.Equal(t, "[redacted]", redactAuditBody("/v1/transactions", []byte("not-json")))
	assert.Equal(t, "", redactAuditBody("/v1/transactions", nil))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("a", maxAuditBody-1) + "é" + "tail"
	out := truncate(s)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("a", maxAuditBody-1)+"...[truncated]", out)

	short := "héllo"
	assert.Equal(t, short, truncate(short))
}

func TestAuditMiddlewareBodyLimit(t *testing.T) {
	auditSvc, err := service.NewAuditService("", 16, nil)
	require.NoError(t, err)
	t.Cleanup(auditSvc.Close)

	var seen int
	r := newRouter(AuditMiddleware(auditSvc))
	r.POST("/v1/transactions", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		seen = len(b)
		c.Status(http.StatusOK)
	})

	body := bytes.Repeat([]byte("x"), maxAuditBody*2)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transactions", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, len(body), seen)

	seen = 0
	huge := bytes.Repeat([]byte("x"), maxRequestBody+1)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transactions", bytes.NewReader(huge)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, rec))
	assert.Zero(t, seen)
}
