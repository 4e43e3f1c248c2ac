package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(cfg VaultConfig, env map[string]string) *Loader {
	l := NewLoader(cfg)
	l.lookup = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	l.setenv = func(key, value string) error {
		env[key] = value
		return nil
	}
	return l
}

func TestLoader_Disabled(t *testing.T) {
	result, err := newTestLoader(VaultConfig{}, map[string]string{}).Apply(context.Background())

	require.NoError(t, err)
	assert.False(t, result.Enabled)
	assert.Zero(t, result.Loaded)
}

func TestLoader_IncompleteConfig(t *testing.T) {
	_, err := newTestLoader(VaultConfig{Enabled: true, Addr: "http://vault"}, map[string]string{}).Apply(context.Background())

	assert.Error(t, err)
}

func TestLoader_AppliesKV2Secrets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/feedback", r.URL.Path)
		assert.Equal(t, "root", r.Header.Get("X-Vault-Token"))
		assert.Equal(t, "team-a", r.Header.Get("X-Vault-Namespace"))
		_, _ = w.Write([]byte(`{"data":{"data":{"PERPLEXITY_API_KEY":"sk-test","AI_MAX_TOKENS":700,"DB_PASSWORD":"secret"}}}`))
	}))
	defer server.Close()

	env := map[string]string{"DB_PASSWORD": "local"}
	cfg := VaultConfig{
		Enabled: true, Addr: server.URL, Token: "root", Namespace: "team-a",
		Mount: "secret", Path: "feedback", KVVersion: 2, Timeout: time.Second,
	}

	result, err := newTestLoader(cfg, env).Apply(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "sk-test", env["PERPLEXITY_API_KEY"])
	assert.Equal(t, "700", env["AI_MAX_TOKENS"])
	assert.Equal(t, "local", env["DB_PASSWORD"])
}

func TestLoader_OverwriteAndKV1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/kv/feedback", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"DB_PASSWORD":"from-vault"}}`))
	}))
	defer server.Close()

	env := map[string]string{"DB_PASSWORD": "local"}
	cfg := VaultConfig{
		Enabled: true, Addr: server.URL, Token: "t", Mount: "kv", Path: "feedback",
		KVVersion: 1, Timeout: time.Second, Overwrite: true,
	}

	result, err := newTestLoader(cfg, env).Apply(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, "from-vault", env["DB_PASSWORD"])
}

func TestLoader_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := VaultConfig{Enabled: true, Addr: server.URL, Token: "t", Mount: "secret", Path: "p", KVVersion: 2, Timeout: time.Second}
	_, err := newTestLoader(cfg, map[string]string{}).Apply(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestBuildVaultURL(t *testing.T) {
	url, err := buildVaultURL("http://vault:8200/", "/secret/", "/app", 2)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/secret/data/app", url)

	_, err = buildVaultURL("", "secret", "app", 2)
	assert.Error(t, err)
}
