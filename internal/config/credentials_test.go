package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvAppKey, "key-123")
	t.Setenv(EnvAppSecret, "secret-456")
	t.Setenv(EnvRefreshToken, "token-789")

	creds := CredentialsFromEnv()
	assert.Equal(t, "key-123", creds.AppKey)
	assert.Equal(t, "secret-456", creds.AppSecret)
	assert.Equal(t, "token-789", creds.RefreshToken)
	assert.NoError(t, creds.Validate())
}

func TestCredentials_Validate(t *testing.T) {
	full := Credentials{AppKey: "k", AppSecret: "s", RefreshToken: "r"}
	assert.NoError(t, full.Validate())

	tests := []struct {
		name   string
		creds  Credentials
		wanted string
	}{
		{"missing app key", Credentials{AppSecret: "s", RefreshToken: "r"}, EnvAppKey},
		{"missing app secret", Credentials{AppKey: "k", RefreshToken: "r"}, EnvAppSecret},
		{"missing refresh token", Credentials{AppKey: "k", AppSecret: "s"}, EnvRefreshToken},
		{"all missing", Credentials{}, EnvAppKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wanted)
		})
	}
}

func TestCredentials_Redaction(t *testing.T) {
	creds := Credentials{AppKey: "topsecretkey", AppSecret: "topsecretsecret", RefreshToken: "topsecrettoken"}

	formatted := fmt.Sprintf("%v %s %+v", creds, creds, creds)
	assert.NotContains(t, formatted, "topsecret")
	assert.Contains(t, formatted, "[redacted]")

	assert.NotContains(t, creds.LogValue().String(), "topsecret")
}
