package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
)

// Variant is the wire key that names a command.
type Variant string

const (
	VariantBatchMarketInstructions Variant = "batchMarketInstructions"
	VariantOrderSubmission         Variant = "orderSubmission"
	VariantOrderCancellation       Variant = "orderCancellation"
	VariantOrderAmendment          Variant = "orderAmendment"
	VariantVoteSubmission          Variant = "voteSubmission"
)

// Variants lists every known command variant.
func Variants() []Variant {
	return []Variant{
		VariantBatchMarketInstructions,
		VariantOrderSubmission,
		VariantOrderCancellation,
		VariantOrderAmendment,
		VariantVoteSubmission,
	}
}

// Command is one instruction destined for the network. The set of
// implementations is closed: BatchMarketInstructions, OrderSubmission,
// OrderCancellation, OrderAmendment and VoteSubmission.
type Command interface {
	Variant() Variant
	isCommand()
}

func (BatchMarketInstructions) Variant() Variant { return VariantBatchMarketInstructions }
func (OrderSubmission) Variant() Variant         { return VariantOrderSubmission }
func (OrderCancellation) Variant() Variant       { return VariantOrderCancellation }
func (OrderAmendment) Variant() Variant          { return VariantOrderAmendment }
func (VoteSubmission) Variant() Variant          { return VariantVoteSubmission }

func (BatchMarketInstructions) isCommand() {}
func (OrderSubmission) isCommand()         {}
func (OrderCancellation) isCommand()       {}
func (OrderAmendment) isCommand()          {}
func (VoteSubmission) isCommand()          {}

// Marshal encodes cmd as a single-key object: {"<variant>": {...payload}}.
func Marshal(cmd Command) ([]byte, error) {
	if isNil(cmd) {
		return nil, apperrors.NewSchema("command: no variant selected")
	}
	variant := cmd.Variant()
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", variant, err)
	}

	var buf bytes.Buffer
	key, _ := json.Marshal(string(variant))
	buf.Grow(len(key) + len(payload) + 3)
	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(payload)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Unmarshal decodes the single-key wire object produced by Marshal.
//
// Zero keys, more than one key or a repeated key is a schema error. An
// unknown variant key, a payload that is not an object, a missing or null
// required field, or a field that fails to decode (including an unknown enum
// tag) is a decode error.
func Unmarshal(data []byte) (Command, error) {
	if isNull(data) {
		return nil, apperrors.NewSchema("command: no variant selected")
	}
	keys, fields, err := readObject(data)
	switch {
	case errors.Is(err, errDuplicateKey):
		return nil, apperrors.New(apperrors.ErrSchema, "command: variant given more than once", err)
	case err != nil:
		return nil, apperrors.NewDecode("command: not a JSON object", err)
	}

	switch len(keys) {
	case 0:
		return nil, apperrors.NewSchema("command: no variant selected")
	case 1:
	default:
		sorted := append([]string{}, keys...)
		sort.Strings(sorted)
		return nil, apperrors.NewSchema(fmt.Sprintf("command: %d variants selected (%s), exactly one allowed",
			len(sorted), strings.Join(sorted, ", ")))
	}
	return decodeVariant(Variant(keys[0]), fields[keys[0]])
}

func decodeVariant(variant Variant, raw json.RawMessage) (Command, error) {
	switch variant {
	case VariantBatchMarketInstructions:
		return decodePayload[BatchMarketInstructions](variant, raw)
	case VariantOrderSubmission:
		return decodePayload[OrderSubmission](variant, raw)
	case VariantOrderCancellation:
		return decodePayload[OrderCancellation](variant, raw)
	case VariantOrderAmendment:
		return decodePayload[OrderAmendment](variant, raw)
	case VariantVoteSubmission:
		return decodePayload[VoteSubmission](variant, raw)
	default:
		return nil, apperrors.NewDecode(fmt.Sprintf("command: unknown variant %q", string(variant)), nil)
	}
}

func decodePayload[T Command](variant Variant, raw json.RawMessage) (Command, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, apperrors.NewDecode(fmt.Sprintf("command: %s payload must be an object", variant), nil)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apperrors.NewDecode(fmt.Sprintf("command: decode %s", variant), err)
	}
	return v, nil
}

func isNil(cmd Command) bool {
	if cmd == nil {
		return true
	}
	rv := reflect.ValueOf(cmd)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Transaction carries a Command inside another JSON document, for example
// the params of a send_transaction request.
type Transaction struct {
	Command Command
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return Marshal(t.Command)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	cmd, err := Unmarshal(data)
	if err != nil {
		return err
	}
	t.Command = cmd
	return nil
}
