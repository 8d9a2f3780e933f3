// Package credentials locates and persists the authentication material
// used against the n8n server: either an admin email/password pair for
// cookie-session login, or a static API key presented via header.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/n8nops/n8nctl/internal/config"
)

// Secret file keys holding the admin login pair.
const (
	EmailKey    = "N8N_ADMIN_EMAIL"
	PasswordKey = "N8N_ADMIN_PASSWORD"
)

// KeyEnv is the environment fallback for the API key.
const KeyEnv = "N8N_API_KEY"

// ErrNoCredential means neither the secret file, the key file, nor the
// environment yielded usable authentication material.
var ErrNoCredential = errors.New("no authentication method available")

// Credential is a closed variant: exactly one of Session or Key is
// active per invocation.
type Credential interface {
	credential()
}

// Session is an email/password pair for cookie-session login.
type Session struct {
	Email    string
	Password string
}

// Key is a static API key presented via request header.
type Key struct {
	APIKey string
}

func (Session) credential() {}
func (Key) credential()     {}

// Resolve produces at most one usable credential, preferring the
// session pair from the secret file over the API key. Callers that
// fail session login fall back to ResolveKey.
func Resolve(cfg *config.Config) (Credential, error) {
	if email, password, ok := ParseSecretFile(cfg.SecretFile()); ok {
		return Session{Email: email, Password: password}, nil
	}
	return ResolveKey(cfg)
}

// ResolveKey resolves the API key only: key file first, then the
// environment.
func ResolveKey(cfg *config.Config) (Credential, error) {
	if key := LoadKey(cfg); key != "" {
		return Key{APIKey: key}, nil
	}
	return nil, ErrNoCredential
}

// ParseSecretFile reads the admin login pair from a KEY=value file.
// Returns ok=false when the file is missing or either key is absent.
func ParseSecretFile(path string) (email, password string, ok bool) {
	entries, err := parse(path)
	if err != nil {
		return "", "", false
	}
	email = entries[EmailKey]
	password = entries[PasswordKey]
	if email == "" || password == "" {
		return "", "", false
	}
	return email, password, true
}

// LoadKey reads the persisted API key, falling back to the environment.
// Returns "" when no key is available.
func LoadKey(cfg *config.Config) string {
	data, err := os.ReadFile(cfg.KeyFile())
	if err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			return key
		}
	}
	return os.Getenv(KeyEnv)
}

// SaveKey persists the trimmed API key with owner-only permissions.
func SaveKey(cfg *config.Config, key string) error {
	if err := cfg.EnsureConfigDir(); err != nil {
		return err
	}
	if err := os.WriteFile(cfg.KeyFile(), []byte(strings.TrimSpace(key)), 0600); err != nil {
		return fmt.Errorf("write API key file: %w", err)
	}
	return nil
}

// SaveSecret writes the admin login pair to the secret file with
// owner-only permissions, replacing any previous content.
func SaveSecret(cfg *config.Config, email, password string) error {
	if err := cfg.EnsureConfigDir(); err != nil {
		return err
	}
	content := fmt.Sprintf("%s=%s\n%s=%s\n", EmailKey, email, PasswordKey, password)
	if err := os.WriteFile(cfg.SecretFile(), []byte(content), 0600); err != nil {
		return fmt.Errorf("write secret file: %w", err)
	}
	return nil
}

// parse reads a KEY=value file and returns its entries. Blank lines and
// #-comments are skipped; double-quoted values are unwrapped.
func parse(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}

		entries[key] = value
	}

	return entries, nil
}
