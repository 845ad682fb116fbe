package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratushq/stratus/pkg/config"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestGetToken(t *testing.T) {
	tcs := []struct {
		name        string
		token       string
		expectError string
	}{
		{
			name:        "missing token",
			token:       "",
			expectError: "no API token configured",
		},
		{
			name:        "malformed token",
			token:       "not-a-jwt",
			expectError: "failed to validate API token",
		},
		{
			name: "expired token",
			token: signedToken(t, jwt.MapClaims{
				"exp": float64(time.Now().Add(-time.Hour).Unix()),
			}),
			expectError: "expired",
		},
		{
			name: "valid token",
			token: signedToken(t, jwt.MapClaims{
				"exp": float64(time.Now().Add(time.Hour).Unix()),
			}),
		},
		{
			name:  "token without exp never expires",
			token: signedToken(t, jwt.MapClaims{"sub": "svc"}),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{Token: tc.token}

			got, err := GetToken(cfg)
			if tc.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.token, got)
		})
	}
}
