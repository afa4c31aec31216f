package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/GoPolymarket/walletgate/internal/config"
	"github.com/GoPolymarket/walletgate/internal/pkg/metrics"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/GoPolymarket/walletgate/pkg/commands"
)

// Guard applies operator limits to a command before it reaches the wallet.
// Order and vote validity stay the network's business.
type Guard struct {
	maxBatchSize     int
	maxDailyCommands int
	restricted       map[string]struct{}
	repo             UsageRepo
}

func NewGuard(cfg config.GuardConfig, repo UsageRepo) *Guard {
	restricted := make(map[string]struct{}, len(cfg.RestrictedMarkets))
	for _, id := range cfg.RestrictedMarkets {
		if id = strings.TrimSpace(id); id != "" {
			restricted[id] = struct{}{}
		}
	}
	return &Guard{
		maxBatchSize:     cfg.MaxBatchSize,
		maxDailyCommands: cfg.MaxDailyCommands,
		restricted:       restricted,
		repo:             repo,
	}
}

// Check returns a COMMAND_REJECTED error when cmd breaks a limit for subject.
func (g *Guard) Check(ctx context.Context, subject string, cmd commands.Command) error {
	items := commands.Items(cmd)

	// 1. Batch size
	if g.maxBatchSize > 0 && cmd.Variant() == commands.VariantBatchMarketInstructions && items > g.maxBatchSize {
		return reject("batch_size", "batch has %d instructions, limit is %d", items, g.maxBatchSize)
	}

	// 2. Restricted markets
	for _, id := range commands.MarketIDs(cmd) {
		if _, blocked := g.restricted[id]; blocked {
			return reject("restricted_market", "market %s is restricted", id)
		}
	}

	// 3. Daily limit
	if g.maxDailyCommands > 0 && g.repo != nil {
		used, err := g.repo.GetDailyUsage(ctx, subject)
		if err != nil {
			return apperrors.New(apperrors.ErrInternal, "guard: read daily usage", err)
		}
		if used+items > g.maxDailyCommands {
			return reject("daily_limit", "daily command limit exceeded (used: %d, new: %d, max: %d)", used, items, g.maxDailyCommands)
		}
	}
	return nil
}

// Record counts a command the wallet accepted.
func (g *Guard) Record(ctx context.Context, subject string, cmd commands.Command) error {
	if g.repo == nil {
		return nil
	}
	return g.repo.AddDailyUsage(ctx, subject, commands.Items(cmd))
}

func reject(reason, format string, args ...any) error {
	metrics.GuardRejects.WithLabelValues(reason).Inc()
	return apperrors.NewRejected("guard reject: " + fmt.Sprintf(format, args...))
}
