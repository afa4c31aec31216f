// Command walletctl talks to a local wallet service directly, without the
// gateway in front of it.
//
//	walletctl [flags] health
//	walletctl [flags] keys
//	walletctl [flags] vote <proposal-id> <yes|no>
//	walletctl [flags] cancel <order-id> <market-id>
//	walletctl [flags] send <command-json>
//	walletctl [flags] encode <command-json>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GoPolymarket/walletgate/internal/config"
	"github.com/GoPolymarket/walletgate/internal/pkg/logger"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/GoPolymarket/walletgate/pkg/commands"
	"github.com/GoPolymarket/walletgate/pkg/jsonrpc"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		kind := apperrors.TypeOf(err)
		if kind == "" {
			kind = "ERROR"
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
		os.Exit(1)
	}
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("walletctl", pflag.ContinueOnError)
	fs.String("config", "", "config file (yaml)")
	fs.String("url", "", "wallet base url")
	fs.String("token", "", "wallet API token")
	fs.String("pubkey", "", "public key to sign with")
	fs.Duration("timeout", 0, "per-call timeout")
	fs.String("log", "", "log level")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: walletctl [flags] health|keys|vote|cancel|send|encode ...")
		fs.PrintDefaults()
	}
	return fs
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return apperrors.NewInvalidRequest(err.Error())
	}
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, "text")

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return apperrors.NewInvalidRequest("missing subcommand")
	}

	sub, rest := rest[0], rest[1:]

	// encode needs no wallet.
	if sub == "encode" {
		cmd, err := commandArg(rest)
		if err != nil {
			return err
		}
		req := jsonrpc.NewSendTransaction(cmd)
		if cfg.Wallet.PublicKey != "" {
			req = req.WithPublicKey(cfg.Wallet.PublicKey)
		}
		return printJSON(out, req)
	}

	client, err := service.DialWallet(ctx, cfg.Wallet)
	if err != nil {
		return err
	}

	switch sub {
	case "health":
		fmt.Fprintf(out, "wallet at %s is healthy\n", client.BaseURL())
		return nil

	case "keys":
		keys, err := client.ListKeys(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, keys)

	case "vote":
		if len(rest) != 2 {
			return apperrors.NewInvalidRequest("usage: vote <proposal-id> <yes|no>")
		}
		var value commands.VoteValue
		switch strings.ToLower(rest[1]) {
		case "yes":
			value = commands.VoteValueYes
		case "no":
			value = commands.VoteValueNo
		default:
			return apperrors.NewInvalidRequest(fmt.Sprintf("vote value %q: want yes or no", rest[1]))
		}
		return submit(ctx, client, out, commands.NewVote(rest[0], value))

	case "cancel":
		if len(rest) != 2 {
			return apperrors.NewInvalidRequest("usage: cancel <order-id> <market-id>")
		}
		return submit(ctx, client, out, commands.NewCancellation(rest[0], rest[1]))

	case "send":
		cmd, err := commandArg(rest)
		if err != nil {
			return err
		}
		return submit(ctx, client, out, cmd)

	default:
		return apperrors.NewInvalidRequest(fmt.Sprintf("unknown subcommand %q", sub))
	}
}

type sender interface {
	SendTransaction(ctx context.Context, cmd commands.Command) (jsonrpc.SendTransactionResult, error)
}

func submit(ctx context.Context, client sender, out io.Writer, cmd commands.Command) error {
	res, err := client.SendTransaction(ctx, cmd)
	if err != nil {
		return err
	}
	return printJSON(out, res)
}

// commandArg reads a command in wire form from args[0], or stdin for "-".
func commandArg(args []string) (commands.Command, error) {
	if len(args) != 1 {
		return nil, apperrors.NewInvalidRequest("expected one command argument (JSON, or - for stdin)")
	}
	raw := []byte(args[0])
	if args[0] == "-" {
		var err error
		if raw, err = io.ReadAll(os.Stdin); err != nil {
			return nil, apperrors.New(apperrors.ErrInvalidRequest, "read stdin", err)
		}
	}
	return commands.Unmarshal(raw)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.New(apperrors.ErrInternal, "print result", err)
	}
	return nil
}
