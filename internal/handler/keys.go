package handler

import (
	"net/http"

	"github.com/GoPolymarket/walletgate/internal/middleware"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/gin-gonic/gin"
)

type KeysHandler struct {
	svc *service.WalletService
}

func NewKeysHandler(svc *service.WalletService) *KeysHandler {
	return &KeysHandler{svc: svc}
}

func (h *KeysHandler) List(c *gin.Context) {
	keys, err := h.svc.ListKeys(c.Request.Context())
	if err != nil {
		middleware.AddAuditContext(c, "error", err.Error())
		middleware.Fail(c, err)
		return
	}
	middleware.AddAuditContext(c, "keys", len(keys.Keys))
	c.JSON(http.StatusOK, keys)
}
