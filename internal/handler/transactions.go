package handler

import (
	"net/http"

	"github.com/GoPolymarket/walletgate/internal/middleware"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/GoPolymarket/walletgate/pkg/commands"
	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	svc *service.WalletService
}

func NewTransactionHandler(svc *service.WalletService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// Send takes a command in its wire form, e.g.
// {"orderCancellation":{"orderId":"abc","marketId":"def"}}, and submits it.
func (h *TransactionHandler) Send(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		middleware.Fail(c, apperrors.New(apperrors.ErrInvalidRequest, "read body", err))
		return
	}

	cmd, err := commands.Unmarshal(body)
	if err != nil {
		// A malformed body is the caller's fault, not the wallet's.
		if apperrors.Is(err, apperrors.ErrDecode) {
			err = apperrors.New(apperrors.ErrInvalidRequest, "invalid command", err)
		}
		middleware.Fail(c, err)
		return
	}
	middleware.AddAuditContext(c, "command", string(cmd.Variant()))
	middleware.AddAuditContext(c, "items", commands.Items(cmd))

	resp, err := h.svc.SendTransaction(c.Request.Context(), cmd)
	if err != nil {
		middleware.AddAuditContext(c, "error", err.Error())
		middleware.Fail(c, err)
		return
	}

	middleware.AddAuditContext(c, "tx_hash", resp.Result.TransactionHash)
	c.JSON(http.StatusOK, resp)
}
