package handler

import (
	"net/http"

	"github.com/GoPolymarket/walletgate/internal/model"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	svc *service.WalletService
}

func NewHealthHandler(svc *service.WalletService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// Check reports 503 while the wallet is unreachable.
func (h *HealthHandler) Check(c *gin.Context) {
	resp := model.HealthResponse{Status: "ok", Service: "walletgate", Wallet: "ok"}
	if err := h.svc.Health(c.Request.Context()); err != nil {
		resp.Status = "degraded"
		resp.Wallet = "unavailable"
		resp.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
