package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/profplay/isbasi/backend/pkg/retry"
)

// VaultConfig describes where the service's secrets live in a Vault KV engine
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	// Overwrite replaces variables that are already set in the environment.
	Overwrite bool
}

// VaultResult summarises what Apply did
type VaultResult struct {
	Enabled bool
	Path    string
	Loaded  int
	Skipped int
}

// LoadVaultConfigFromEnv reads the VAULT_* variables
func LoadVaultConfigFromEnv() VaultConfig {
	cfg := VaultConfig{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     "secret",
		Path:      os.Getenv("VAULT_PATH"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
	}
	if mount := os.Getenv("VAULT_MOUNT"); mount != "" {
		cfg.Mount = mount
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if ms, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

// URL returns the read endpoint for the configured secret
func (c VaultConfig) URL() (string, error) {
	addr := strings.TrimRight(c.Addr, "/")
	mount := strings.Trim(c.Mount, "/")
	path := strings.TrimLeft(c.Path, "/")
	if addr == "" || mount == "" || path == "" {
		return "", errors.New("vault address, mount and path must be set")
	}
	if c.KVVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path), nil
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path), nil
}

// Apply copies the secret's keys into the process environment so that
// config.Load picks them up. It is a no-op when Vault is disabled.
func Apply(ctx context.Context, cfg VaultConfig) (VaultResult, error) {
	result := VaultResult{Enabled: cfg.Enabled, Path: cfg.Path}
	if !cfg.Enabled {
		return result, nil
	}

	values, err := Read(ctx, cfg, retry.Config{
		MaxAttempts:   3,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2,
	})
	if err != nil {
		return result, err
	}

	for key, value := range values {
		if !cfg.Overwrite && os.Getenv(key) != "" {
			result.Skipped++
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return result, fmt.Errorf("failed to set %s: %w", key, err)
		}
		result.Loaded++
	}
	return result, nil
}

// Read fetches the secret's key/value pairs. Transport errors and 5xx responses are retried.
func Read(ctx context.Context, cfg VaultConfig, policy retry.Config) (map[string]string, error) {
	if cfg.Token == "" {
		return nil, errors.New("vault configuration incomplete: VAULT_TOKEN is not set")
	}
	url, err := cfg.URL()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Timeout}
	var body []byte
	err = retry.Do(ctx, policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("X-Vault-Token", cfg.Token)
		if cfg.Namespace != "" {
			req.Header.Set("X-Vault-Namespace", cfg.Namespace)
		}

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("vault returned %s", resp.Status)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return retry.Permanent(fmt.Errorf("vault fetch failed: %s %s", resp.Status, strings.TrimSpace(string(body))))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return decodeSecret(body, cfg.KVVersion)
}

// kvResponse covers both engine versions: v1 puts the pairs in data, v2 in data.data.
type kvResponse struct {
	Data map[string]json.RawMessage `json:"data"`
}

func decodeSecret(body []byte, kvVersion int) (map[string]string, error) {
	var resp kvResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode vault response: %w", err)
	}
	if resp.Data == nil {
		return nil, errors.New("vault response has no data")
	}

	pairs := resp.Data
	if kvVersion != 1 {
		inner, ok := resp.Data["data"]
		if !ok {
			return nil, errors.New("vault response missing data for KV v2")
		}
		pairs = nil
		if err := json.Unmarshal(inner, &pairs); err != nil || pairs == nil {
			return nil, errors.New("vault response missing data for KV v2")
		}
	}

	values := make(map[string]string, len(pairs))
	for key, raw := range pairs {
		values[key] = stringify(raw)
	}
	return values, nil
}

// stringify keeps strings unquoted and renders anything else as its JSON text
func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}
