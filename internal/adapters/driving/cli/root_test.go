package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "scholarstr", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"feed", "paper", "search", "stats", "submit", "annotate", "serve", "mcp", "tui", "settings", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_RelayFlagSwitchesRelays(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "--relay", "wss://a.example", "--relay", "wss://b.example", "feed")
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://a.example", "wss://b.example"}, env.relay.Relays())
}

func TestRootCmd_RelayFlagWithoutClient(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	relaySelector = nil

	_, err := execute(t, "--relay", "wss://a.example", "feed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay client not configured")
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer logger.SetVerbose(false)

	_, err := execute(t, "-v", "version")
	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", fmt.Errorf("get: %w", domain.ErrNotFound), "paper not found"},
		{"timeout", domain.ErrQueryTimeout, "--relay"},
		{"failed", domain.ErrQueryFailed, "switch relay"},
		{"publish", domain.ErrPublishFailed, "nothing was retried"},
		{"signer", domain.ErrSignerUnavailable, "set-key"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, userError(tt.err).Error(), tt.want)
		})
	}
	assert.NoError(t, userError(nil))
}

func TestCommands_RequireServices(t *testing.T) {
	defer resetFlags()
	SetServices(Services{})

	for _, args := range [][]string{
		{"feed"},
		{"paper", "get", "pk", "slug"},
		{"search", "quantum"},
		{"stats", "zaps", "ev"},
		{"settings", "show"},
	} {
		_, err := execute(t, args...)
		require.Error(t, err, "%v", args)
		assert.Contains(t, err.Error(), "not configured", "%v", args)
	}
}
