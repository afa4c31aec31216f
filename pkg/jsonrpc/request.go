package jsonrpc

import (
	"github.com/GoPolymarket/walletgate/pkg/commands"
)

const Version = "2.0"

const (
	MethodSendTransaction = "client.send_transaction"
	MethodListKeys        = "client.list_keys"
)

// Sending modes for send_transaction.
const (
	SendingModeSync   = "TYPE_SYNC"
	SendingModeAsync  = "TYPE_ASYNC"
	SendingModeCommit = "TYPE_COMMIT"
)

// Params is the payload of a send_transaction request.
type Params struct {
	PublicKey   string               `json:"publicKey,omitempty"`
	SendingMode string               `json:"sendingMode"`
	Transaction commands.Transaction `json:"transaction"`
}

// Request is the JSON-RPC envelope sent to the wallet. Params is nil for
// methods that take none and is then written as null.
type Request struct {
	Version string  `json:"jsonrpc"`
	Method  string  `json:"method"`
	Params  *Params `json:"params"`
	ID      string  `json:"id"`
}

// NewRequest builds an envelope for method with a fresh id.
func NewRequest(method string, params *Params) Request {
	return Request{
		Version: Version,
		Method:  method,
		Params:  params,
		ID:      NewID(),
	}
}

// NewSendTransaction wraps cmd for synchronous submission.
func NewSendTransaction(cmd commands.Command) Request {
	return NewSendTransactionWithMode(cmd, SendingModeSync)
}

// NewSendTransactionWithMode wraps cmd with an explicit sending mode.
func NewSendTransactionWithMode(cmd commands.Command, mode string) Request {
	return NewRequest(MethodSendTransaction, &Params{
		SendingMode: mode,
		Transaction: commands.Transaction{Command: cmd},
	})
}

// WithPublicKey returns a copy of r whose params name the signing key.
// Requests without params are returned unchanged.
func (r Request) WithPublicKey(pubKey string) Request {
	if r.Params == nil {
		return r
	}
	p := *r.Params
	p.PublicKey = pubKey
	r.Params = &p
	return r
}

// NewListKeys builds a list_keys request.
func NewListKeys() Request {
	return NewRequest(MethodListKeys, nil)
}
