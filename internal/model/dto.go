package model

import (
	"github.com/GoPolymarket/walletgate/pkg/commands"
	"github.com/GoPolymarket/walletgate/pkg/jsonrpc"
)

// Caller is the authenticated client of the gateway.
type Caller struct {
	ID        string `json:"id"`
	Anonymous bool   `json:"anonymous"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Wallet  string `json:"wallet"`
	Error   string `json:"error,omitempty"`
}

// TransactionResponse is returned by POST /v1/transactions.
type TransactionResponse struct {
	Command   commands.Variant              `json:"command"`
	Items     int                           `json:"items"`
	PublicKey string                        `json:"public_key"`
	Result    jsonrpc.SendTransactionResult `json:"result"`
}
