package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	prev := version
	version = v
	t.Cleanup(func() { version = prev })
}

func TestVersionCmd_Executes(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	withVersion(t, "test-version-1.0.0")

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "scholarstr version test-version-1.0.0\n", out)
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	withVersion(t, "dev")

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "scholarstr version dev")
}

func TestVersionCmd_Verbose(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	withVersion(t, "1.2.3")

	out, err := execute(t, "version", "--verbose")

	require.NoError(t, err)
	assert.Contains(t, out, "paper 30023, zap receipt 9735, comment 1111")
	assert.Contains(t, out, "relays: memory://")
}

func TestVersionCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	withVersion(t, "1.2.3")

	out, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, []int{30023, 9735, 1111}, info.Kinds)
	assert.Equal(t, []string{"memory://"}, info.Relays)
}
