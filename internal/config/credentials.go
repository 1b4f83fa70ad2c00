package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apierrors "github.com/diogo/healthchat/internal/errors"
)

// DefaultAPIKeyEnv is the variable the credential is read from.
const DefaultAPIKeyEnv = "API_KEY"

// FallbackAPIKeyEnv is consulted when the configured variable is empty.
const FallbackAPIKeyEnv = "GEMINI_API_KEY"

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ResolveAPIKey returns the API credential named by cfg.APIKeyEnv, falling
// back to GEMINI_API_KEY. It returns ErrNoAPIKey when neither is set.
func ResolveAPIKey(cfg Config) (string, error) {
	name := cfg.APIKeyEnv
	if name == "" {
		name = DefaultAPIKeyEnv
	}

	if key := strings.TrimSpace(os.Getenv(name)); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(os.Getenv(FallbackAPIKeyEnv)); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("%w: set %s in the environment or %s", apierrors.ErrNoAPIKey, name, envFileHint(cfg))
}

func envFileHint(cfg Config) string {
	if cfg.EnvFile == "" {
		return "a .env file"
	}
	return cfg.EnvFile
}
