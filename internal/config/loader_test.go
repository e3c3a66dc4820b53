package config

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "sandbox")
	t.Setenv("APP_SERVICE_NAME", "devices-api")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_SERVER_PORT", "9999")

	cfg, err := Init()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "sandbox", cfg.App.Env.Name)
	assert.Equal(t, "devices-api", cfg.App.ServiceName)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, uint(9999), cfg.HTTPServer.Port)
}

func TestInit_DefaultValues(t *testing.T) {
	cfg, err := Init()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// App defaults
	assert.Equal(t, "devices-api", cfg.App.ServiceName)
	assert.Equal(t, "v1", cfg.App.APIVersion)

	// HTTPServer defaults
	assert.Equal(t, "0.0.0.0", cfg.HTTPServer.Host)
	assert.Equal(t, uint(8080), cfg.HTTPServer.Port)

	// Database defaults
	assert.Equal(t, "postgres", cfg.Database.Host)
	assert.Equal(t, uint(5432), cfg.Database.Port)
	assert.Equal(t, "devices", cfg.Database.Database)

	// Vault defaults
	assert.False(t, cfg.SecretsStorage.Enabled)
	assert.Equal(t, "http://vault:8200", cfg.SecretsStorage.Address)
	assert.Equal(t, "token", cfg.SecretsStorage.AuthMethod)
	assert.Equal(t, "devices-api", cfg.SecretsStorage.MountPath)
}

func TestApplySecretToConfig(t *testing.T) {
	cases := []struct {
		name     string
		key      string
		value    string
		validate func(*testing.T, *ServiceConfig)
	}{
		{
			name:  "database username is applied",
			key:   "POSTGRES_USERNAME",
			value: "secret-user",
			validate: func(t *testing.T, cfg *ServiceConfig) {
				assert.Equal(t, "secret-user", cfg.Database.Username)
			},
		},
		{
			name:  "database password is applied",
			key:   "POSTGRES_PASSWORD",
			value: "secret-pass",
			validate: func(t *testing.T, cfg *ServiceConfig) {
				assert.Equal(t, "secret-pass", cfg.Database.Password)
			},
		},
		{
			name:  "unknown key only sets environment variable",
			key:   "UNRELATED_KEY",
			value: "whatever",
			validate: func(t *testing.T, cfg *ServiceConfig) {
				assert.Empty(t, cfg.Database.Username)
				assert.Empty(t, cfg.Database.Password)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, "")

			cfg := &ServiceConfig{}
			loader := NewLoader(cfg, nil, 0)

			err := loader.applySecretToConfig(cfg, tc.key, tc.value)
			assert.NoError(t, err)
			tc.validate(t, cfg)
		})
	}
}

// stubSecretsRepo serves a secret whose version increments on every read,
// so each poll observes a rotation.
type stubSecretsRepo struct {
	mu      sync.Mutex
	version int
}

func (s *stubSecretsRepo) SetToken(string) {}

func (s *stubSecretsRepo) GetSecrets(context.Context, string) (*api.Secret, error) {
	s.mu.Lock()
	s.version++
	version := s.version
	s.mu.Unlock()

	return &api.Secret{Data: map[string]any{
		"data": map[string]any{
			"POSTGRES_USERNAME": "rotated-user",
			"POSTGRES_PASSWORD": "rotated-pass",
		},
		"metadata": map[string]any{
			"version": json.Number(strconv.Itoa(version)),
		},
	}}, nil
}

func (s *stubSecretsRepo) WriteWithContext(context.Context, string, map[string]any) (*api.Secret, error) {
	return nil, nil
}

func secretsEnabledConfig() *ServiceConfig {
	return &ServiceConfig{
		SecretsStorage: SecretsStorage{
			Enabled:    true,
			AuthMethod: "token",
			Token:      "test-token",
			MountPath:  "devices-api",
			Timeout:    time.Second,
			MaxRetries: 0,
		},
	}
}

func TestLoad_OverlaysSecretsInSingleRead(t *testing.T) {
	t.Setenv("POSTGRES_USERNAME", "")
	t.Setenv("POSTGRES_PASSWORD", "")

	cfg := secretsEnabledConfig()
	repo := &stubSecretsRepo{}
	loader := NewLoader(cfg, repo, 0)

	version, err := loader.Load(context.Background(), repo, cfg)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.Equal(t, "rotated-user", cfg.Database.Username)
	assert.Equal(t, "rotated-pass", cfg.Database.Password)
}

func TestLoad_DisabledStorageFails(t *testing.T) {
	cfg := &ServiceConfig{}
	repo := &stubSecretsRepo{}
	loader := NewLoader(cfg, repo, 0)

	_, err := loader.Load(context.Background(), repo, cfg)
	assert.Error(t, err)
}

func TestUnpackSecret(t *testing.T) {
	cases := []struct {
		name            string
		secret          *api.Secret
		expectedVersion uint
		expectError     bool
	}{
		{
			name: "nil secret yields nothing",
		},
		{
			name:   "missing metadata yields version zero",
			secret: &api.Secret{Data: map[string]any{"data": map[string]any{}}},
		},
		{
			name: "json number version",
			secret: &api.Secret{Data: map[string]any{
				"metadata": map[string]any{"version": json.Number("7")},
			}},
			expectedVersion: 7,
		},
		{
			name: "float version",
			secret: &api.Secret{Data: map[string]any{
				"metadata": map[string]any{"version": float64(3)},
			}},
			expectedVersion: 3,
		},
		{
			name: "unexpected version type",
			secret: &api.Secret{Data: map[string]any{
				"metadata": map[string]any{"version": []string{"nope"}},
			}},
			expectError: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, version, err := unpackSecret(tc.secret)
			if tc.expectError {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expectedVersion, version)
		})
	}
}

// The poll ticker must keep reloading even when a real signal already
// occupies the signal channel's buffer.
func TestWatchConfigSignals_TickerKeepsReloading(t *testing.T) {
	t.Setenv("POSTGRES_USERNAME", "")
	t.Setenv("POSTGRES_PASSWORD", "")

	cfg := secretsEnabledConfig()
	cfg.SecretsStorage.PollInterval = 5 * time.Millisecond

	repo := &stubSecretsRepo{}
	loader := NewLoader(cfg, repo, 0)
	loader.signalChan <- syscall.SIGHUP

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := loader.WatchConfigSignals(ctx)

	for i := 0; i < 3; i++ {
		select {
		case err := <-reloads:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatalf("reload %d never reported", i+1)
		}
	}
}

func TestGetEnvironment(t *testing.T) {
	cases := []struct {
		name     string
		env      string
		expected int
	}{
		{
			name:     "production",
			env:      "production",
			expected: Production,
		},
		{
			name:     "prod shorthand",
			env:      "prod",
			expected: Production,
		},
		{
			name:     "staging",
			env:      "staging",
			expected: Staging,
		},
		{
			name:     "stg shorthand",
			env:      "stg",
			expected: Staging,
		},
		{
			name:     "sandbox",
			env:      "sandbox",
			expected: Sandbox,
		},
		{
			name:     "sbx shorthand",
			env:      "sbx",
			expected: Sandbox,
		},
		{
			name:     "development default",
			env:      "development",
			expected: Development,
		},
		{
			name:     "unknown defaults to development",
			env:      "unknown",
			expected: Development,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &ServiceConfig{
				App: App{Env: Environment{Name: tc.env}},
			}

			assert.Equal(t, tc.expected, cfg.GetEnvironment())
		})
	}
}

func TestIsProduction(t *testing.T) {
	cases := []struct {
		name     string
		env      string
		expected bool
	}{
		{
			name:     "production returns true",
			env:      "production",
			expected: true,
		},
		{
			name:     "prod returns true",
			env:      "prod",
			expected: true,
		},
		{
			name:     "staging returns false",
			env:      "staging",
			expected: false,
		},
		{
			name:     "development returns false",
			env:      "development",
			expected: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &ServiceConfig{
				App: App{Env: Environment{Name: tc.env}},
			}

			assert.Equal(t, tc.expected, cfg.IsProduction())
		})
	}
}
