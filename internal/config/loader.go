package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/carlosduarte/devices-api/internal/ports"
	"github.com/cenkalti/backoff/v5"
	"github.com/hashicorp/vault/api"
	"github.com/kelseyhightower/envconfig"
)

// Secret keys this service overlays onto the environment-derived config.
const (
	secretKeyDatabaseUsername = "POSTGRES_USERNAME"
	secretKeyDatabasePassword = "POSTGRES_PASSWORD"
)

// Loader overlays database credentials from Vault onto the running
// config and keeps them current: SIGHUP forces a reload, and an optional
// poll ticker picks up credential rotations without a signal.
type Loader struct {
	cfg          *ServiceConfig
	secretsRepo  ports.SecretsRepository
	signalChan   chan os.Signal
	reloadErrors chan error
	lastVersion  uint
}

func NewLoader(cfg *ServiceConfig, secretsRepo ports.SecretsRepository, initialVersion uint) *Loader {
	return &Loader{
		cfg:          cfg,
		secretsRepo:  secretsRepo,
		signalChan:   make(chan os.Signal, 1),
		reloadErrors: make(chan error, 1),
		lastVersion:  initialVersion,
	}
}

func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	return cfg, nil
}

// WatchConfigSignals starts the reload loop and returns the channel on
// which reload outcomes are reported.
func (l *Loader) WatchConfigSignals(ctx context.Context) <-chan error {
	signal.Notify(l.signalChan, syscall.SIGHUP)

	var ticker *time.Ticker
	var tickerChan <-chan time.Time
	if l.cfg.SecretsStorage.Enabled && l.cfg.SecretsStorage.PollInterval > 0 {
		ticker = time.NewTicker(l.cfg.SecretsStorage.PollInterval)
		tickerChan = ticker.C
	}

	go func() {
		defer signal.Stop(l.signalChan)
		defer close(l.signalChan)
		defer close(l.reloadErrors)

		if ticker != nil {
			defer ticker.Stop()
		}

		for {
			select {
			case <-ctx.Done():
				return

			case <-tickerChan:
				// Reload directly; this loop is the only reader of the
				// signal channel, so re-sending SIGHUP to ourselves
				// could block forever once the buffer is occupied.
				l.reload(ctx)

			case <-l.signalChan:
				l.reload(ctx)
			}
		}
	}()

	return l.reloadErrors
}

// Load authenticates against Vault, reads the service's secret in one
// round trip and overlays it onto cfg. It returns the secret version so
// the reload loop can detect rotations.
func (l *Loader) Load(ctx context.Context, secretsRepo ports.SecretsRepository, cfg *ServiceConfig) (uint, error) {
	if !cfg.SecretsStorage.Enabled {
		return 0, fmt.Errorf("secrets storage is not enabled")
	}

	if err := authenticateVault(ctx, secretsRepo, cfg.SecretsStorage); err != nil {
		return 0, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	secret, err := readSecret(ctx, secretsRepo, cfg.SecretsStorage)
	if err != nil {
		return 0, err
	}

	data, version, err := unpackSecret(secret)
	if err != nil {
		return 0, err
	}

	if err := l.applySecretsToConfig(cfg, data); err != nil {
		return 0, fmt.Errorf("failed to apply secrets to config: %w", err)
	}

	return version, nil
}

func (l *Loader) reload(ctx context.Context) {
	version, err := l.Load(ctx, l.secretsRepo, l.cfg)
	if err != nil {
		l.reportReloadStatus(err)

		return
	}

	if version == l.lastVersion {
		return
	}

	l.lastVersion = version
	l.reportReloadStatus(nil)
}

func authenticateVault(ctx context.Context, client ports.SecretsRepository, storage SecretsStorage) error {
	switch strings.ToLower(storage.AuthMethod) {
	case "token":
		if storage.Token == "" {
			return fmt.Errorf("token is required for token auth method")
		}
		client.SetToken(storage.Token)

		return nil

	case "approle":
		if storage.RoleID == "" || storage.SecretID == "" {
			return fmt.Errorf("role_id and secret_id are required for approle auth method")
		}

		resp, err := client.WriteWithContext(ctx, "auth/approle/login", map[string]any{
			"role_id":   storage.RoleID,
			"secret_id": storage.SecretID,
		})
		if err != nil {
			return fmt.Errorf("failed to authenticate via approle: %w", err)
		}

		if resp.Auth == nil {
			return fmt.Errorf("no auth info returned from Vault")
		}

		client.SetToken(resp.Auth.ClientToken)

		return nil

	default:
		return fmt.Errorf("unsupported auth method: %s", storage.AuthMethod)
	}
}

func readSecret(ctx context.Context, secretsRepo ports.SecretsRepository, storage SecretsStorage) (*api.Secret, error) {
	path := fmt.Sprintf("apps/data/%s", storage.MountPath)

	ctx, cancel := context.WithTimeout(ctx, storage.Timeout)
	defer cancel()

	expBackoff := backoff.NewExponentialBackOff()

	operation := func() (*api.Secret, error) {
		return secretsRepo.GetSecrets(ctx, path)
	}

	secret, err := backoff.Retry(ctx, operation,
		backoff.WithMaxTries(storage.MaxRetries+1),
		backoff.WithBackOff(expBackoff),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets at %s: %w", path, err)
	}

	return secret, nil
}

// unpackSecret pulls the KV v2 payload and its version out of a single
// read. A nil secret means there is nothing to overlay.
func unpackSecret(secret *api.Secret) (map[string]any, uint, error) {
	if secret == nil || secret.Data == nil {
		return nil, 0, nil
	}

	data, _ := secret.Data["data"].(map[string]any)

	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return data, 0, nil
	}

	version, err := parseSecretVersion(metadata["version"])
	if err != nil {
		return nil, 0, err
	}

	return data, version, nil
}

func parseSecretVersion(value any) (uint, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return uint(v), nil
	case uint:
		return v, nil
	case json.Number:
		version, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("failed to parse secret version: %w", err)
		}

		return uint(version), nil
	default:
		return 0, fmt.Errorf("unexpected secret version type: %T", value)
	}
}

func (l *Loader) applySecretsToConfig(cfg *ServiceConfig, data map[string]any) error {
	for key, value := range data {
		if strValue, ok := value.(string); ok && strValue != "" {
			if err := l.applySecretToConfig(cfg, key, strValue); err != nil {
				return err
			}
		}
	}

	return nil
}

func (l *Loader) applySecretToConfig(cfg *ServiceConfig, key, value string) error {
	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("failed to set environment variable %s: %w", key, err)
	}

	switch key {
	case secretKeyDatabaseUsername:
		cfg.Database.Username = value
	case secretKeyDatabasePassword:
		cfg.Database.Password = value
	}

	return nil
}

func (l *Loader) reportReloadStatus(err error) {
	select {
	case l.reloadErrors <- err:
	default:
	}
}
