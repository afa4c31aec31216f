package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoPolymarket/walletgate/internal/model"
	"github.com/GoPolymarket/walletgate/internal/pkg/logger"
	"github.com/GoPolymarket/walletgate/internal/pkg/metrics"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/GoPolymarket/walletgate/pkg/commands"
	"github.com/GoPolymarket/walletgate/pkg/jsonrpc"
)

// WalletClient is the part of *wallet.Client the gateway uses.
type WalletClient interface {
	CheckHealth(ctx context.Context) error
	ListKeys(ctx context.Context) (jsonrpc.KeysResponse, error)
	SendTransaction(ctx context.Context, cmd commands.Command) (jsonrpc.SendTransactionResult, error)
	PublicKey() string
}

type WalletService struct {
	client WalletClient
	guard  *Guard
	log    *slog.Logger
}

func NewWalletService(client WalletClient, guard *Guard) *WalletService {
	return &WalletService{
		client: client,
		guard:  guard,
		log:    logger.With("component", "wallet_service"),
	}
}

func (s *WalletService) Health(ctx context.Context) error {
	_, err := observe("health", func() (struct{}, error) {
		return struct{}{}, s.client.CheckHealth(ctx)
	})
	return err
}

func (s *WalletService) ListKeys(ctx context.Context) (jsonrpc.KeysResponse, error) {
	return observe(jsonrpc.MethodListKeys, func() (jsonrpc.KeysResponse, error) {
		return s.client.ListKeys(ctx)
	})
}

// SendTransaction runs the guard, submits cmd under the configured public key
// and counts it toward the key's daily usage.
func (s *WalletService) SendTransaction(ctx context.Context, cmd commands.Command) (*model.TransactionResponse, error) {
	if _, err := commands.Marshal(cmd); err != nil {
		return nil, err
	}
	pubKey := s.client.PublicKey()

	if s.guard != nil {
		if err := s.guard.Check(ctx, pubKey, cmd); err != nil {
			return nil, err
		}
	}

	res, err := observe(jsonrpc.MethodSendTransaction, func() (jsonrpc.SendTransactionResult, error) {
		return s.client.SendTransaction(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}
	metrics.TransactionsTotal.WithLabelValues(string(cmd.Variant())).Inc()

	if s.guard != nil {
		if err := s.guard.Record(ctx, pubKey, cmd); err != nil {
			s.log.Warn("failed to record usage", "error", err.Error(), "tx_hash", res.TransactionHash)
		}
	}

	return &model.TransactionResponse{
		Command:   cmd.Variant(),
		Items:     commands.Items(cmd),
		PublicKey: pubKey,
		Result:    res,
	}, nil
}

func observe[T any](method string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	metrics.WalletLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	metrics.WalletRequests.WithLabelValues(method, metrics.Outcome(string(apperrors.TypeOf(err)))).Inc()
	return out, err
}
