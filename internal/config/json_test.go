package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSONFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_AllFields(t *testing.T) {
	path := writeJSONFile(t, `{
		"app": {"production": true, "version": "0.9.0"},
		"auth": {
			"session_cookie": "sess",
			"current_user_cookie": "cur",
			"guest_cookie": "guest",
			"session_duration": "12h",
			"notice_duration": "6h",
			"guest_duration": "48h",
			"share_token_sign_key": "secret",
			"share_token_issuer": "issuer",
			"share_token_duration": "240h"
		},
		"storage": {"db": {"dsn": "postgres://localhost/devlinks", "connect_attempts": 4, "connect_backoff": "3s"}},
		"server": {"http_address": "localhost:8081", "request_timeout": "45s"},
		"media": {"upload_url": "https://media.example.com", "api_key": "mk", "upload_timeout": "10s"},
		"workers": {"sweep_interval": "15m"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.True(t, cfg.App.Production)
	assert.Equal(t, "0.9.0", cfg.App.Version)

	assert.Equal(t, "sess", cfg.Auth.SessionCookie)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, 6*time.Hour, cfg.Auth.NoticeDuration)
	assert.Equal(t, 48*time.Hour, cfg.Auth.GuestDuration)
	assert.Equal(t, "secret", cfg.Auth.ShareTokenSignKey)
	assert.Equal(t, 240*time.Hour, cfg.Auth.ShareTokenDuration)

	assert.Equal(t, "postgres://localhost/devlinks", cfg.Storage.DB.DSN)
	assert.Equal(t, 4, cfg.Storage.DB.ConnectAttempts)
	assert.Equal(t, 3*time.Second, cfg.Storage.DB.ConnectBackoff)

	assert.Equal(t, "localhost:8081", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "https://media.example.com", cfg.Media.UploadURL)
	assert.Equal(t, 15*time.Minute, cfg.Workers.SweepInterval)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	cfg, err := parseJSON("/no/such/file.json")
	assert.Nil(t, cfg)
	require.Error(t, err)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	path := writeJSONFile(t, `{not json`)

	cfg, err := parseJSON(path)
	assert.Nil(t, cfg)
	require.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", input: `"1h30m"`, want: 90 * time.Minute},
		{name: "numeric nanoseconds", input: `1000000000`, want: time.Second},
		{name: "invalid string", input: `"not-a-duration"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}
