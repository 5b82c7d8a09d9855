package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "STORE_DRIVER", "DB_PATH", "DATABASE_URL", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "SEED_DEMO_DATA", "LOG_LEVEL", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestMigrateCommand(t *testing.T) {
	clearEnv(t)
	dbPath := filepath.Join(t.TempDir(), "data", "postboard.db")

	cmd, err := newRootCmd()
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"migrate", "--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "schema up to date")

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist after migrate")
}

func TestMigrateCommand_InvalidDriver(t *testing.T) {
	clearEnv(t)

	cmd, err := newRootCmd()
	require.NoError(t, err)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "--driver", "mysql"})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestRootCmd_MalformedEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	_, err := newRootCmd()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestRootCmd_EnvironmentFeedsFlagDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4321")

	cmd, err := newRootCmd()
	require.NoError(t, err)

	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 4321, port)
}
