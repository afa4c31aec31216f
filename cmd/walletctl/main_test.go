package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeNeedsNoWallet(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{
		"--url", "http://127.0.0.1:1",
		"--pubkey", "abc123",
		"encode", `{"orderCancellation":{"orderId":"abc","marketId":"def"}}`,
	}, &out)
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &req))
	assert.Equal(t, "2.0", req["jsonrpc"])
	assert.Equal(t, "client.send_transaction", req["method"])
	params := req["params"].(map[string]any)
	assert.Equal(t, "abc123", params["publicKey"])
	assert.Equal(t, "TYPE_SYNC", params["sendingMode"])
}

func TestEncodeRejectsBadCommand(t *testing.T) {
	err := run(context.Background(), []string{"encode", `{}`}, &bytes.Buffer{})
	assert.True(t, apperrors.Is(err, apperrors.ErrSchema))
}

func TestUnknownSubcommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := run(context.Background(), []string{"--url", srv.URL, "transfer"}, &bytes.Buffer{})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest))
}

func TestVoteAgainstWallet(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"receivedAt":"a","sentAt":"b","transactionHash":"FEED","code":0}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--url", srv.URL, "vote", "prop-1", "yes"}, &out))
	assert.Contains(t, out.String(), "FEED")

	tx := got["params"].(map[string]any)["transaction"].(map[string]any)
	assert.Equal(t, map[string]any{"proposalId": "prop-1", "value": "VALUE_YES"}, tx["voteSubmission"])
}

func TestVoteRejectsUnknownValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	for _, value := range []string{"maybe", "unspecified", "VALUE_YES", ""} {
		err := run(context.Background(), []string{"--url", srv.URL, "vote", "p", value}, &bytes.Buffer{})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRequest), value)
	}
}
