package secrets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/saunabooking/pkg/retry"
	"github.com/zatekoja/saunabooking/pkg/secrets"
)

func vaultServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/sauna-booking", r.URL.Path)
		assert.Equal(t, "root-token", r.Header.Get("X-Vault-Token"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func settings(addr string) secrets.VaultSettings {
	return secrets.VaultSettings{
		Enabled: true,
		Addr:    addr,
		Token:   "root-token",
		Mount:   "secret",
		Path:    "sauna-booking",
		Timeout: time.Second,
		Retry:   retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1, MaxTotalTimeout: time.Second},
	}
}

func TestApply_ExportsManagedKeys(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("UNRELATED", "")

	srv := vaultServer(t, http.StatusOK, `{"data":{"data":{"SECRET_KEY":"jwt-secret","DB_PASSWORD":"vault-pw","UNRELATED":"x","REDIS_PORT":6380}}}`)

	out, err := secrets.Apply(context.Background(), settings(srv.URL))

	require.NoError(t, err)
	assert.Equal(t, []string{"SECRET_KEY"}, out.Applied)
	assert.Equal(t, []string{"DB_PASSWORD"}, out.Kept)
	assert.Equal(t, "jwt-secret", os.Getenv("SECRET_KEY"))
	assert.Equal(t, "from-env", os.Getenv("DB_PASSWORD"))
	assert.Empty(t, os.Getenv("UNRELATED"))
}

func TestApply_Overwrite(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	srv := vaultServer(t, http.StatusOK, `{"data":{"data":{"DB_PASSWORD":"vault-pw"}}}`)

	s := settings(srv.URL)
	s.Overwrite = true
	out, err := secrets.Apply(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, []string{"DB_PASSWORD"}, out.Applied)
	assert.Equal(t, "vault-pw", os.Getenv("DB_PASSWORD"))
}

func TestApply_Failures(t *testing.T) {
	t.Run("forbidden", func(t *testing.T) {
		srv := vaultServer(t, http.StatusForbidden, `{"errors":["permission denied"]}`)
		_, err := secrets.Apply(context.Background(), settings(srv.URL))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("missing data", func(t *testing.T) {
		srv := vaultServer(t, http.StatusOK, `{"data":{}}`)
		_, err := secrets.Apply(context.Background(), settings(srv.URL))
		assert.Error(t, err)
	})

	t.Run("incomplete settings", func(t *testing.T) {
		_, err := secrets.Apply(context.Background(), secrets.VaultSettings{Enabled: true})
		assert.Error(t, err)
	})
}

func TestApply_Disabled(t *testing.T) {
	out, err := secrets.Apply(context.Background(), secrets.VaultSettings{})
	require.NoError(t, err)
	assert.Empty(t, out.Applied)
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "TRUE")
	t.Setenv("VAULT_ADDR", "http://vault:8200")
	t.Setenv("VAULT_MOUNT", "")
	t.Setenv("VAULT_PATH", "")
	t.Setenv("VAULT_TIMEOUT", "2s")

	s := secrets.SettingsFromEnv()

	assert.True(t, s.Enabled)
	assert.Equal(t, "secret", s.Mount)
	assert.Equal(t, "sauna-booking", s.Path)
	assert.Equal(t, 2*time.Second, s.Timeout)
	assert.Equal(t, 3, s.Retry.MaxAttempts)
}
