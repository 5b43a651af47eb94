package configs

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFromLines(t *testing.T, raw string) ENV {
	t.Helper()
	var env ENV
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		key, value, ok := strings.Cut(line, "=")
		require.True(t, ok, line)
		switch key {
		case "APP_AUTH_KEY":
			env.AppAuthKey = value
		case "APP_ENC_KEY":
			env.AppEncKey = value
		}
	}
	return env
}

func TestSessionKeys_RoundTrip(t *testing.T) {
	keys, err := GenerateSessionKeys()
	require.NoError(t, err)
	assert.Len(t, keys.AuthKey, 64)
	assert.Len(t, keys.EncKey, 32)

	var buf bytes.Buffer
	require.NoError(t, keys.WriteEnv(&buf))

	loaded, err := LoadSessionKeysFromEnv(envFromLines(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, keys, loaded)
}

func TestLoadSessionKeysFromEnv_Rejects(t *testing.T) {
	valid := base64.URLEncoding.EncodeToString(bytes.Repeat([]byte("k"), 32))

	tests := []struct {
		name string
		env  ENV
	}{
		{"missing auth key", ENV{AppEncKey: valid}},
		{"missing enc key", ENV{AppAuthKey: valid}},
		{"auth key not base64", ENV{AppAuthKey: "%%%", AppEncKey: valid}},
		{"auth key too short", ENV{AppAuthKey: base64.URLEncoding.EncodeToString([]byte("short")), AppEncKey: valid}},
		{"enc key wrong size", ENV{AppAuthKey: valid, AppEncKey: base64.URLEncoding.EncodeToString(bytes.Repeat([]byte("k"), 20))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSessionKeysFromEnv(tt.env)
			assert.Error(t, err)
		})
	}
}

func TestSessionKeys_SaveEnvFileDoesNotOverwrite(t *testing.T) {
	keys, err := GenerateSessionKeys()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), ".env.new_keys")

	require.NoError(t, keys.SaveEnvFile(path))
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(written), "APP_AUTH_KEY="))

	assert.Error(t, keys.SaveEnvFile(path))
}
