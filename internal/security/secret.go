package security

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"os"
)

const secretLength = 32

// LoadOrCreateSecret returns the process-wide signing secret. If the file
// exists its trimmed contents are used; otherwise a fresh random secret is
// generated and persisted with owner-only permissions. The secret is never
// rotated at runtime.
func LoadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		secret := bytes.TrimSpace(data)
		if len(secret) < secretLength {
			return nil, fmt.Errorf("secret file %s is too short (%d bytes)", path, len(secret))
		}
		return secret, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read secret file: %w", err)
	}

	secret := make([]byte, secretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist secret: %w", err)
	}
	return secret, nil
}
