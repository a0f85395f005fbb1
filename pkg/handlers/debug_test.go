package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bingeclub/bingeclub-engine/pkg/config"
)

func TestDebugConfig_ReportsPresenceOnly(t *testing.T) {
	cfg := &config.Config{Env: "production"}
	cfg.OMDb.APIKey = "super-secret-key"
	cfg.Database.Password = "hunter2"
	cfg.Auth.EnableVerification = true
	cfg.Auth.JWKSEndpoints = map[string]string{
		"https://issuer.example.com": "https://issuer.example.com/jwks",
	}

	mux := http.NewServeMux()
	NewDebugHandler(cfg, zap.NewNop()).RegisterRoutes(mux)

	rec := doRequest(t, mux, http.MethodGet, "/api/debug/config", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "OK", body["status"])

	env, ok := body["environment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "production", env["env"])
	assert.Equal(t, true, env["hasOMDbKey"])
	assert.Equal(t, true, env["hasDatabasePassword"])
	assert.Equal(t, true, env["hasJWKSEndpoints"])
	assert.Equal(t, true, env["authVerification"])

	// Secrets themselves never leave the process.
	assert.NotContains(t, rec.Body.String(), "super-secret-key")
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestDebugConfig_EmptyConfig(t *testing.T) {
	mux := http.NewServeMux()
	NewDebugHandler(&config.Config{}, zap.NewNop()).RegisterRoutes(mux)

	rec := doRequest(t, mux, http.MethodGet, "/api/debug/config", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	env := body["environment"].(map[string]interface{})
	assert.Equal(t, false, env["hasOMDbKey"])
	assert.Equal(t, false, env["hasDatabasePassword"])
	assert.Equal(t, false, env["hasJWKSEndpoints"])
}
