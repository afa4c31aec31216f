// Package wallet is an HTTP client for a locally running wallet service.
//
// A Client is safe for concurrent use. Each call is one request/response
// cycle with no retries; bound it with the context or WithTimeout.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/GoPolymarket/walletgate/pkg/commands"
	"github.com/GoPolymarket/walletgate/pkg/jsonrpc"
)

const DefaultBaseURL = "http://127.0.0.1:1789"

const (
	healthPath   = "/api/v2/health"
	requestsPath = "/api/v2/requests"
	authScheme   = "VWT "

	maxBodyBytes = 8 << 20
)

type Client struct {
	baseURL string
	token   string
	pubKey  string
	http    *http.Client
	log     *slog.Logger
	checkID bool
}

// New builds a client and checks the wallet's health before returning it.
// No client is returned when the check fails.
func New(ctx context.Context, baseURL, token, pubKey string, opts ...Option) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	c := &Client{
		baseURL: base,
		token:   token,
		pubKey:  pubKey,
		http:    o.httpClient,
		log:     o.logger,
		checkID: o.checkResponse,
	}
	if err := c.CheckHealth(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", apperrors.NewInvalidRequest(fmt.Sprintf("invalid wallet base url %q", raw))
	}
	return raw, nil
}

func (c *Client) BaseURL() string   { return c.baseURL }
func (c *Client) PublicKey() string { return c.pubKey }

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Authorization", authScheme+c.token)
}

// CheckHealth succeeds on any 2xx answer from the health endpoint.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return apperrors.NewTransport("health: build request", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("wallet health check failed", "url", c.baseURL, "error", err.Error())
		return apperrors.NewTransport("health: wallet unreachable", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("wallet health check failed", "url", c.baseURL, "status", resp.StatusCode)
		return apperrors.NewTransport(fmt.Sprintf("health: wallet answered HTTP %d", resp.StatusCode), nil)
	}
	return nil
}

// Submit posts req and returns the raw response envelope. A JSON-RPC error
// object comes back as an RPC_ERROR together with the decoded envelope.
func (c *Client) Submit(ctx context.Context, req jsonrpc.Request) (jsonrpc.Response[json.RawMessage], error) {
	return call[json.RawMessage](ctx, c, req)
}

// ListKeys returns the keys held by the wallet.
func (c *Client) ListKeys(ctx context.Context) (jsonrpc.KeysResponse, error) {
	resp, err := call[jsonrpc.KeysResponse](ctx, c, jsonrpc.NewListKeys())
	return resp.Result, err
}

// SendTransaction signs cmd with the client's public key and submits it
// synchronously.
func (c *Client) SendTransaction(ctx context.Context, cmd commands.Command) (jsonrpc.SendTransactionResult, error) {
	return c.SendTransactionWithMode(ctx, cmd, jsonrpc.SendingModeSync)
}

func (c *Client) SendTransactionWithMode(ctx context.Context, cmd commands.Command, mode string) (jsonrpc.SendTransactionResult, error) {
	req := jsonrpc.NewSendTransactionWithMode(cmd, mode).WithPublicKey(c.pubKey)
	resp, err := call[jsonrpc.SendTransactionResult](ctx, c, req)
	return resp.Result, err
}

// Sign is not supported by this client.
func (c *Client) Sign(ctx context.Context, cmd commands.Command) (json.RawMessage, error) {
	return nil, apperrors.New(apperrors.ErrNotImplemented, "sign is not implemented", nil)
}

func call[T any](ctx context.Context, c *Client, rpcReq jsonrpc.Request) (jsonrpc.Response[T], error) {
	var out jsonrpc.Response[T]

	payload, err := json.Marshal(rpcReq)
	if err != nil {
		if apperrors.TypeOf(err) != "" {
			return out, fmt.Errorf("%s: encode request: %w", rpcReq.Method, err)
		}
		return out, apperrors.New(apperrors.ErrSchema, rpcReq.Method+": encode request", err)
	}

	started := time.Now()
	status, body, err := c.post(ctx, payload)
	c.log.Debug("wallet rpc", "method", rpcReq.Method, "id", rpcReq.ID, "status", status, "latency", time.Since(started))
	if err != nil {
		return out, err
	}

	if status < 200 || status > 299 {
		if resp, derr := jsonrpc.DecodeResponse[json.RawMessage](body); apperrors.Is(derr, apperrors.ErrRPC) {
			return jsonrpc.Response[T]{Version: resp.Version, Error: resp.Error, ID: resp.ID}, derr
		}
		return out, apperrors.NewTransport(fmt.Sprintf("%s: wallet answered HTTP %d", rpcReq.Method, status), nil)
	}

	out, err = jsonrpc.DecodeResponse[T](body)
	if err != nil {
		return out, err
	}
	if c.checkID && out.ID != rpcReq.ID {
		return out, apperrors.NewDecode(fmt.Sprintf("%s: response id %q does not match request id %q", rpcReq.Method, out.ID, rpcReq.ID), nil)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+requestsPath, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, apperrors.NewTransport("build request", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, apperrors.NewTransport("wallet unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, apperrors.NewTransport("read response", err)
	}
	return resp.StatusCode, body, nil
}
