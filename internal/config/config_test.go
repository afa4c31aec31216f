package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:1789", cfg.Wallet.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Wallet.Timeout)
	assert.Equal(t, 100, cfg.Wallet.MaxIdleConns)
	assert.False(t, cfg.Wallet.CheckResponseID)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Zero(t, cfg.Guard.MaxBatchSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WALLETGATE_WALLET_TOKEN", "tok")
	t.Setenv("WALLETGATE_WALLET_TIMEOUT", "3s")
	t.Setenv("WALLETGATE_GUARD_MAX_BATCH_SIZE", "25")
	t.Setenv("WALLETGATE_GUARD_RESTRICTED_MARKETS", "m1,m2")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Wallet.Token)
	assert.Equal(t, 3*time.Second, cfg.Wallet.Timeout)
	assert.Equal(t, 25, cfg.Guard.MaxBatchSize)
	assert.Equal(t, []string{"m1", "m2"}, cfg.Guard.RestrictedMarkets)
}

func TestLoadFlagsAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walletgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
wallet:
  base_url: http://wallet.local:1789
  public_key: from-file
auth:
  require_api_key: true
  api_key: k
`), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("pubkey", "", "")
	fs.Duration("timeout", 0, "")
	require.NoError(t, fs.Parse([]string{"--config", path, "--pubkey", "from-flag", "--timeout", "750ms"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "http://wallet.local:1789", cfg.Wallet.BaseURL)
	assert.Equal(t, "from-flag", cfg.Wallet.PublicKey)
	assert.Equal(t, 750*time.Millisecond, cfg.Wallet.Timeout)
	assert.True(t, cfg.Auth.RequireAPIKey)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))

	_, err := Load(fs)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Auth:  AuthConfig{RequireAPIKey: true},
		Guard: GuardConfig{MaxBatchSize: -1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wallet.base_url")
	assert.Contains(t, err.Error(), "auth.api_key")
	assert.Contains(t, err.Error(), "guard limits")
}
