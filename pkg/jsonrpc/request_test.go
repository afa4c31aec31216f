package jsonrpc

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/GoPolymarket/walletgate/pkg/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListKeysShape(t *testing.T) {
	req := NewListKeys()
	assert.Equal(t, "2.0", req.Version)
	assert.Equal(t, MethodListKeys, req.Method)
	assert.Nil(t, req.Params)
	_, err := strconv.ParseUint(req.ID, 10, 64)
	assert.NoError(t, err, "id %q must be a decimal uint64", req.ID)

	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","method":"client.list_keys","params":null,"id":"`+req.ID+`"}`, string(out))
}

func TestNewSendTransactionShape(t *testing.T) {
	cmd := commands.NewCancellation("abc", "def")
	req := NewSendTransaction(cmd)

	assert.Equal(t, MethodSendTransaction, req.Method)
	require.NotNil(t, req.Params)
	assert.Equal(t, SendingModeSync, req.Params.SendingMode)
	assert.Equal(t, cmd, req.Params.Transaction.Command)

	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"jsonrpc":"2.0",
		"method":"client.send_transaction",
		"params":{"sendingMode":"TYPE_SYNC","transaction":{"orderCancellation":{"orderId":"abc","marketId":"def"}}},
		"id":"`+req.ID+`"
	}`, string(out))
}

func TestSendTransactionDecodesBack(t *testing.T) {
	cmd := commands.NewVote("p1", commands.VoteValueYes)
	req := NewSendTransactionWithMode(cmd, SendingModeAsync).WithPublicKey("ab12")

	out, err := json.Marshal(req)
	require.NoError(t, err)

	var back Request
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, req.ID, back.ID)
	require.NotNil(t, back.Params)
	assert.Equal(t, "ab12", back.Params.PublicKey)
	assert.Equal(t, SendingModeAsync, back.Params.SendingMode)
	assert.Equal(t, cmd, back.Params.Transaction.Command)
}

func TestWithPublicKeyDoesNotMutateOriginal(t *testing.T) {
	req := NewSendTransaction(commands.NewVote("p", commands.VoteValueNo))
	keyed := req.WithPublicKey("k")
	assert.Empty(t, req.Params.PublicKey)
	assert.Equal(t, "k", keyed.Params.PublicKey)

	lk := NewListKeys()
	assert.Nil(t, lk.WithPublicKey("k").Params)
}

func TestIDsAreUnique(t *testing.T) {
	const n = 200000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s after %d draws", id, i)
		seen[id] = struct{}{}
	}
}

func TestEachRequestGetsFreshID(t *testing.T) {
	a := NewListKeys()
	b := NewListKeys()
	assert.NotEqual(t, a.ID, b.ID)
}
