package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "devtrust"
	keyringUser    = "github_token"
	tokenFileName  = "github_token"

	tokenFileMode = 0600
)

// SaveToken stores the GitHub token in the OS keychain, falling back
// to a file under fallbackDir when no keychain is available.
func SaveToken(token, fallbackDir string) error {
	if token == "" {
		return errors.New("token is required")
	}

	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return saveTokenFile(token, fallbackDir)
	}

	// Clean up a legacy token file if one exists.
	os.Remove(path.Join(fallbackDir, tokenFileName))

	return nil
}

// GetToken reads the stored GitHub token, preferring the OS keychain
// and migrating any file-stored token into it.
func GetToken(fallbackDir string) (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err == nil && token != "" {
		return token, nil
	}

	token, err = getTokenFile(fallbackDir)
	if err != nil {
		return "", err
	}

	if migrateErr := keyring.Set(keyringService, keyringUser, token); migrateErr == nil {
		slog.Info("migrated token from file to OS keychain")
		os.Remove(path.Join(fallbackDir, tokenFileName))
	}

	return token, nil
}

func saveTokenFile(token, dir string) error {
	if dir == "" {
		return errors.New("fallback directory is required")
	}
	return os.WriteFile(path.Join(dir, tokenFileName), []byte(token), tokenFileMode)
}

func getTokenFile(dir string) (string, error) {
	tokenPath := path.Join(dir, tokenFileName)
	b, err := os.ReadFile(tokenPath)
	if err != nil {
		return "", fmt.Errorf("reading token file %s: %w", tokenPath, err)
	}
	return string(b), nil
}
