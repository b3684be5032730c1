package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	s, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":42069", s.Addr)
	assert.Equal(t, "default", s.Difficulty)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GRQ_ADDR", "127.0.0.1:9000")
	t.Setenv("GRQ_DIFFICULTY", "hard")
	t.Setenv("GRQ_TELEMETRY_DSN", "file:telemetry.db")

	s, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", s.Addr)
	assert.Equal(t, "hard", s.Difficulty)
	assert.Equal(t, "file:telemetry.db", s.TelemetryDSN)
}

func TestSettingsTables(t *testing.T) {
	tables, err := Settings{Difficulty: "casual"}.Tables()
	require.NoError(t, err)
	assert.Equal(t, int64(2), tables.Rules.BaseClickAmount)

	_, err = Settings{Difficulty: "nightmare"}.Tables()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "balance.yml")
	require.NoError(t, os.WriteFile(path, []byte("employees: [{key: x, name: X, base_cost: -1, cost_multiplier: 1}]\n"), 0o644))
	_, err = Settings{BalanceFile: path}.Tables()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "load balance "))
}
