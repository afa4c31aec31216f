package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
)

// Response is the JSON-RPC envelope returned by the wallet.
type Response[T any] struct {
	Version string    `json:"jsonrpc"`
	Result  T         `json:"result"`
	Error   *RPCError `json:"error,omitempty"`
	ID      string    `json:"id"`
}

// RPCError is the error object of a failed JSON-RPC call.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rawResponse struct {
	Version string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      string          `json:"id"`
}

// DecodeResponse parses a response envelope and decodes its result as T.
//
// A body that is not an envelope, or whose result does not fit T, is an
// ErrDecode. An envelope carrying an error object is an ErrRPC whose cause
// is the *RPCError; the returned Response still holds version, id and error.
func DecodeResponse[T any](body []byte) (Response[T], error) {
	var out Response[T]

	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return out, apperrors.NewDecode("response: malformed envelope", err)
	}
	out.Version = raw.Version
	out.ID = raw.ID
	out.Error = raw.Error

	if raw.Error != nil {
		return out, apperrors.New(apperrors.ErrRPC, "wallet returned an error", raw.Error)
	}
	if isNullOrEmpty(raw.Result) {
		return out, apperrors.NewDecode("response: missing result", nil)
	}
	if err := json.Unmarshal(raw.Result, &out.Result); err != nil {
		return out, apperrors.NewDecode(fmt.Sprintf("response: result does not match %T", out.Result), err)
	}
	return out, nil
}

// UnwrapResult decodes body and returns only its result.
func UnwrapResult[T any](body []byte) (T, error) {
	resp, err := DecodeResponse[T](body)
	return resp.Result, err
}

func isNullOrEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// KeysResponse is the result of client.list_keys.
type KeysResponse struct {
	Keys []Key `json:"keys"`
}

func (k *KeysResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		Keys *[]Key `json:"keys"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Keys == nil {
		return apperrors.NewDecode("keys response: missing keys", nil)
	}
	k.Keys = *wire.Keys
	return nil
}

// Key is one wallet key.
type Key struct {
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
}

func (k *Key) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name      *string `json:"name"`
		PublicKey *string `json:"publicKey"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Name == nil || wire.PublicKey == nil {
		return apperrors.NewDecode("key: name and publicKey are required", nil)
	}
	k.Name = *wire.Name
	k.PublicKey = *wire.PublicKey
	return nil
}

// SendTransactionResult is the result of client.send_transaction.
// Transaction is kept as the raw signed transaction the wallet returned.
type SendTransactionResult struct {
	ReceivedAt      string          `json:"receivedAt"`
	SentAt          string          `json:"sentAt"`
	TransactionHash string          `json:"transactionHash"`
	Transaction     json.RawMessage `json:"transaction,omitempty"`
}

func (r *SendTransactionResult) UnmarshalJSON(data []byte) error {
	type wire SendTransactionResult
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.TransactionHash == "" {
		return apperrors.NewDecode("send transaction result: missing transactionHash", nil)
	}
	*r = SendTransactionResult(w)
	return nil
}
