package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stratushq/stratus/pkg/config"
)

// GetToken returns the configured API token after checking it has not
// expired. Tokens are issued by the orchestrator and cannot be refreshed by
// the CLI; an expired token needs to be replaced in config.
func GetToken(cfg *config.Config) (string, error) {
	if cfg.Token == "" {
		return "", fmt.Errorf("no API token configured. Set STRATUS_API_TOKEN or add 'token' to ~/.stratus/config.yaml")
	}

	valid, err := isTokenValid(cfg.Token)
	if err != nil {
		return "", fmt.Errorf("failed to validate API token: %w", err)
	}
	if !valid {
		return "", fmt.Errorf("API token has expired. Please generate a new one")
	}

	return cfg.Token, nil
}

// isTokenValid checks if a JWT token is not expired. Signature verification
// is the server's job; the CLI only inspects the exp claim to fail fast with
// a clear message instead of a 401.
func isTokenValid(tokenString string) (bool, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return false, fmt.Errorf("failed to parse JWT token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false, fmt.Errorf("failed to parse JWT claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		// Tokens without an exp claim never expire
		return true, nil
	}

	return time.Now().Before(time.Unix(int64(exp), 0)), nil
}
