package configs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

const (
	authKeyLength = 64
	encKeyLength  = 32
)

// SessionKeys sign and encrypt the cart cookie. The first 32 bytes of AuthKey
// also key the CSRF token cookie.
type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

func LoadSessionKeysFromEnv(env ENV) (*SessionKeys, error) {
	if env.AppAuthKey == "" {
		return nil, errors.New("APP_AUTH_KEY environment variable not set")
	}
	if env.AppEncKey == "" {
		return nil, errors.New("APP_ENC_KEY environment variable not set")
	}

	authKey, err := base64.URLEncoding.DecodeString(env.AppAuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_AUTH_KEY from base64: %w", err)
	}
	if len(authKey) < 32 {
		return nil, fmt.Errorf("APP_AUTH_KEY must decode to at least 32 bytes, got %d", len(authKey))
	}
	encKey, err := base64.URLEncoding.DecodeString(env.AppEncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_ENC_KEY from base64: %w", err)
	}
	switch len(encKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("APP_ENC_KEY must decode to 16, 24 or 32 bytes for AES, got %d", len(encKey))
	}

	return &SessionKeys{AuthKey: authKey, EncKey: encKey}, nil
}

func GenerateSessionKeys() (*SessionKeys, error) {
	authKey := securecookie.GenerateRandomKey(authKeyLength)
	if authKey == nil {
		return nil, errors.New("could not generate authentication key")
	}
	encKey := securecookie.GenerateRandomKey(encKeyLength)
	if encKey == nil {
		return nil, errors.New("could not generate encryption key")
	}
	return &SessionKeys{AuthKey: authKey, EncKey: encKey}, nil
}

// WriteEnv writes the keys as .env lines readable by LoadSessionKeysFromEnv.
func (k *SessionKeys) WriteEnv(w io.Writer) error {
	_, err := fmt.Fprintf(w, "APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\n",
		base64.URLEncoding.EncodeToString(k.AuthKey),
		base64.URLEncoding.EncodeToString(k.EncKey))
	return err
}

// SaveEnvFile writes the keys to path, refusing to overwrite an existing file.
func (k *SessionKeys) SaveEnvFile(path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := k.WriteEnv(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write keys to %s: %w", path, err)
	}
	return file.Close()
}
