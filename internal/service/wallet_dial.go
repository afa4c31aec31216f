package service

import (
	"context"

	"github.com/GoPolymarket/walletgate/internal/config"
	"github.com/GoPolymarket/walletgate/internal/pkg/logger"
	"github.com/GoPolymarket/walletgate/pkg/wallet"
)

// DialWallet builds a wallet client from config. It fails when the wallet
// does not pass its health check within cfg.HealthTimeout.
func DialWallet(ctx context.Context, cfg config.WalletConfig) (*wallet.Client, error) {
	opts := []wallet.Option{
		wallet.WithLogger(logger.With("component", "wallet")),
	}
	if cfg.MaxIdleConns > 0 {
		opts = append(opts, wallet.WithMaxIdleConns(cfg.MaxIdleConns))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, wallet.WithTimeout(cfg.Timeout))
	}
	if cfg.CheckResponseID {
		opts = append(opts, wallet.WithResponseIDCheck())
	}

	if cfg.HealthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.HealthTimeout)
		defer cancel()
	}
	return wallet.New(ctx, cfg.BaseURL, cfg.Token, cfg.PublicKey, opts...)
}
