package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/GoPolymarket/walletgate/internal/middleware"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List returns the caller's recent audit records. Query: limit, from, to
// (RFC3339 or unix seconds).
func (h *AuditHandler) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if caller == nil {
		middleware.Fail(c, apperrors.New(apperrors.ErrAuthFailed, "unauthorized: missing caller", nil))
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			middleware.Fail(c, apperrors.NewInvalidRequest("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	var fromPtr *time.Time
	var toPtr *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			middleware.Fail(c, apperrors.NewInvalidRequest("from: "+err.Error()))
			return
		}
		fromPtr = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			middleware.Fail(c, apperrors.NewInvalidRequest("to: "+err.Error()))
			return
		}
		toPtr = &t
	}

	records, err := h.svc.List(c.Request.Context(), caller.ID, limit, fromPtr, toPtr)
	if err != nil {
		middleware.Fail(c, apperrors.New(apperrors.ErrInternal, "list audit records", err))
		return
	}
	c.JSON(http.StatusOK, records)
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time format")
}
