// Package config loads the out-of-band environment configuration: the
// service-account credential and the target spreadsheet. Everything else is
// user preference and lives in the settings file.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Env holds environment-provided configuration. Both fields are optional;
// remote logging is disabled when either is missing.
type Env struct {
	CredentialsFile string `env:"MAXHANG_SHEETS_CREDENTIALS"`
	SpreadsheetID   string `env:"MAXHANG_SPREADSHEET_ID"`
}

// ParseEnv reads configuration from the process environment.
func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RemoteEnabled reports whether the remote spreadsheet sink can be built.
func (cfg Env) RemoteEnabled() bool {
	return cfg.CredentialsFile != "" && cfg.SpreadsheetID != ""
}

// ReadCredentials loads the service-account JSON blob from disk.
func (cfg Env) ReadCredentials() ([]byte, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return data, nil
}
