package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("MAXHANG_SHEETS_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("MAXHANG_SPREADSHEET_ID", "1D8VM5Na1LBII")

	cfg, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, "/secrets/sa.json", cfg.CredentialsFile)
	assert.Equal(t, "1D8VM5Na1LBII", cfg.SpreadsheetID)
	assert.True(t, cfg.RemoteEnabled())
}

func TestRemoteDisabledWhenUnset(t *testing.T) {
	t.Setenv("MAXHANG_SHEETS_CREDENTIALS", "")
	t.Setenv("MAXHANG_SPREADSHEET_ID", "")

	cfg, err := ParseEnv()
	require.NoError(t, err)
	assert.False(t, cfg.RemoteEnabled())

	t.Setenv("MAXHANG_SPREADSHEET_ID", "sheet-id")
	cfg, err = ParseEnv()
	require.NoError(t, err)
	assert.False(t, cfg.RemoteEnabled(), "credential still missing")
}

func TestReadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600))

	cfg := Env{CredentialsFile: path, SpreadsheetID: "sheet-id"}
	blob, err := cfg.ReadCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(blob))

	cfg.CredentialsFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = cfg.ReadCredentials()
	assert.Error(t, err)
}
