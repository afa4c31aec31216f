package service

import (
	"context"
	"testing"

	"github.com/GoPolymarket/walletgate/internal/config"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/GoPolymarket/walletgate/pkg/commands"
	"github.com/GoPolymarket/walletgate/pkg/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	healthErr error
	keys      jsonrpc.KeysResponse
	sendErr   error
	sent      []commands.Command
}

func (f *fakeClient) CheckHealth(context.Context) error { return f.healthErr }
func (f *fakeClient) ListKeys(context.Context) (jsonrpc.KeysResponse, error) {
	return f.keys, nil
}
func (f *fakeClient) SendTransaction(_ context.Context, cmd commands.Command) (jsonrpc.SendTransactionResult, error) {
	if f.sendErr != nil {
		return jsonrpc.SendTransactionResult{}, f.sendErr
	}
	f.sent = append(f.sent, cmd)
	return jsonrpc.SendTransactionResult{TransactionHash: "HASH"}, nil
}
func (f *fakeClient) PublicKey() string { return "pk" }

func TestSendTransactionRecordsUsage(t *testing.T) {
	client := &fakeClient{}
	store := NewMemoryUsageStore()
	svc := NewWalletService(client, NewGuard(config.GuardConfig{MaxDailyCommands: 10}, store))

	resp, err := svc.SendTransaction(context.Background(), batchOf(3, "m"))
	require.NoError(t, err)
	assert.Equal(t, commands.VariantBatchMarketInstructions, resp.Command)
	assert.Equal(t, 3, resp.Items)
	assert.Equal(t, "pk", resp.PublicKey)
	assert.Equal(t, "HASH", resp.Result.TransactionHash)

	used, _ := store.GetDailyUsage(context.Background(), "pk")
	assert.Equal(t, 3, used)
}

func TestSendTransactionGuardRejectsBeforeWallet(t *testing.T) {
	client := &fakeClient{}
	svc := NewWalletService(client, NewGuard(config.GuardConfig{RestrictedMarkets: []string{"m"}}, nil))

	_, err := svc.SendTransaction(context.Background(), commands.NewCancellation("o", "m"))
	assert.True(t, apperrors.Is(err, apperrors.ErrRejected))
	assert.Empty(t, client.sent)
}

func TestSendTransactionWalletErrorNotCounted(t *testing.T) {
	client := &fakeClient{sendErr: apperrors.NewTransport("down", nil)}
	store := NewMemoryUsageStore()
	svc := NewWalletService(client, NewGuard(config.GuardConfig{MaxDailyCommands: 10}, store))

	_, err := svc.SendTransaction(context.Background(), commands.NewVote("p", commands.VoteValueYes))
	assert.True(t, apperrors.Is(err, apperrors.ErrTransport))
	used, _ := store.GetDailyUsage(context.Background(), "pk")
	assert.Zero(t, used)
}

func TestSendTransactionRejectsInvalidCommand(t *testing.T) {
	client := &fakeClient{}
	svc := NewWalletService(client, nil)

	_, err := svc.SendTransaction(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrSchema))

	_, err = svc.SendTransaction(context.Background(), commands.VoteSubmission{ProposalID: "p", Value: commands.VoteValue(42)})
	assert.True(t, apperrors.Is(err, apperrors.ErrSchema))
	assert.Empty(t, client.sent)
}

func TestHealthAndKeys(t *testing.T) {
	client := &fakeClient{keys: jsonrpc.KeysResponse{Keys: []jsonrpc.Key{{Name: "k1", PublicKey: "abc"}}}}
	svc := NewWalletService(client, nil)

	require.NoError(t, svc.Health(context.Background()))
	keys, err := svc.ListKeys(context.Background())
	require.NoError(t, err)
	assert.Len(t, keys.Keys, 1)

	client.healthErr = apperrors.NewTransport("health: wallet answered HTTP 503", nil)
	assert.True(t, apperrors.Is(svc.Health(context.Background()), apperrors.ErrTransport))
}
