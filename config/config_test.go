package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telamon-labs/go-gatekeeper/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatekeeper.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"port": 9090},
		"database": {"dsn": "file:users.db"},
		"keys": {"private": "keys/private.pem", "public": "keys/public.pem"},
		"token": {"expiration_hours": 2, "issuer": "gatekeeper", "audience": ["api"]},
		"routes": [
			{"path": "/api/orders", "target": "http://orders:3000", "public": false},
			{"path": "/health", "target": "http://status:3000", "public": true}
		]
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file:users.db", cfg.Database.DSN)
	assert.Equal(t, "keys/private.pem", cfg.Keys.Private)
	assert.Equal(t, "keys/public.pem", cfg.Keys.Public)
	assert.Equal(t, 2, cfg.Token.ExpirationHours)
	assert.Equal(t, "gatekeeper", cfg.Token.Issuer)
	assert.Equal(t, []string{"api"}, cfg.Token.Audience)

	require.Len(t, cfg.Routes, 2)
	assert.False(t, cfg.Routes[0].Public)
	assert.True(t, cfg.Routes[1].Public)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"database": {"dsn": "file:users.db"},
		"keys": {"private": "keys/private.pem", "public": "keys/public.pem"}
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, 1, cfg.Token.ExpirationHours)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `port = 8080`},
		{"missing dsn", `{
			"keys": {"private": "p.pem", "public": "pub.pem"}
		}`},
		{"missing key paths", `{
			"database": {"dsn": "file:users.db"},
			"keys": {"private": "p.pem"}
		}`},
		{"port out of range", `{
			"server": {"port": 70000},
			"database": {"dsn": "file:users.db"},
			"keys": {"private": "p.pem", "public": "pub.pem"}
		}`},
		{"route without target", `{
			"database": {"dsn": "file:users.db"},
			"keys": {"private": "p.pem", "public": "pub.pem"},
			"routes": [{"path": "/api"}]
		}`},
		{"route target not a url", `{
			"database": {"dsn": "file:users.db"},
			"keys": {"private": "p.pem", "public": "pub.pem"},
			"routes": [{"path": "/api", "target": "::::"}]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
