// Package secrets loads credentials from a Vault KV store into the process
// environment before configuration is read.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/saunabooking/pkg/retry"
)

// ManagedKeys are the environment variables a Vault secret may set. Other
// keys in the secret are ignored.
var ManagedKeys = []string{"SECRET_KEY", "DB_PASSWORD", "REDIS_PASSWORD"}

// VaultSettings locates the secret holding the service credentials
type VaultSettings struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	Timeout   time.Duration
	// Overwrite replaces variables already set in the environment
	Overwrite bool
	Retry     retry.Config
}

// Outcome reports which managed keys were applied
type Outcome struct {
	Applied []string
	Kept    []string
}

// SettingsFromEnv reads VAULT_* variables. Vault is off unless VAULT_ENABLED=true.
func SettingsFromEnv() VaultSettings {
	timeout := 5 * time.Second
	if v, err := time.ParseDuration(os.Getenv("VAULT_TIMEOUT")); err == nil && v > 0 {
		timeout = v
	}
	mount := os.Getenv("VAULT_MOUNT")
	if mount == "" {
		mount = "secret"
	}
	path := os.Getenv("VAULT_PATH")
	if path == "" {
		path = "sauna-booking"
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 3
	retryCfg.MaxTotalTimeout = 3 * timeout

	return VaultSettings{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     mount,
		Path:      path,
		Timeout:   timeout,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
		Retry:     retryCfg,
	}
}

type kvV2Response struct {
	Data struct {
		Data map[string]json.RawMessage `json:"data"`
	} `json:"data"`
}

// Apply fetches the KV v2 secret and exports its managed keys
func Apply(ctx context.Context, s VaultSettings) (Outcome, error) {
	if !s.Enabled {
		return Outcome{}, nil
	}
	if s.Addr == "" || s.Token == "" {
		return Outcome{}, errors.New("vault enabled but VAULT_ADDR or VAULT_TOKEN is empty")
	}

	var values map[string]string
	err := retry.DoWithLog(ctx, s.Retry, "Vault", func() error {
		var fetchErr error
		values, fetchErr = fetch(ctx, s)
		return fetchErr
	}, func(attempt int, err error, next time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", next).Msg("Vault fetch failed, retrying")
	})
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	for _, key := range ManagedKeys {
		value, ok := values[key]
		if !ok {
			continue
		}
		if !s.Overwrite && os.Getenv(key) != "" {
			out.Kept = append(out.Kept, key)
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return out, fmt.Errorf("failed to export %s: %w", key, err)
		}
		out.Applied = append(out.Applied, key)
	}

	log.Info().Strs("applied", out.Applied).Strs("kept", out.Kept).Str("path", s.Path).Msg("Loaded secrets from Vault")
	return out, nil
}

func fetch(ctx context.Context, s VaultSettings) (map[string]string, error) {
	url := fmt.Sprintf("%s/v1/%s/data/%s",
		strings.TrimRight(s.Addr, "/"), strings.Trim(s.Mount, "/"), strings.Trim(s.Path, "/"))

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", s.Token)
	if s.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", s.Namespace)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("vault returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload kvV2Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode vault response: %w", err)
	}
	if payload.Data.Data == nil {
		return nil, errors.New("vault response has no secret data")
	}

	values := make(map[string]string, len(payload.Data.Data))
	for key, raw := range payload.Data.Data {
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			values[key] = str
			continue
		}
		values[key] = string(raw)
	}
	return values, nil
}
