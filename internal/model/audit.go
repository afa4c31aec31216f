package model

import (
	"time"
)

// AuditLog is one gateway request as recorded by the audit middleware.
type AuditLog struct {
	ID        string `json:"id"` // request id (uuid)
	CallerID  string `json:"caller_id"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`

	RequestBody   string `json:"request_body"` // redacted
	RequestHeader string `json:"request_header"`

	StatusCode   int    `json:"status_code"`
	ResponseBody string `json:"response_body"`
	LatencyMs    int64  `json:"latency_ms"`

	// Command variant, wallet transaction hash, upstream error and the like.
	Context map[string]interface{} `json:"context"`

	CreatedAt time.Time `json:"created_at"`
}
