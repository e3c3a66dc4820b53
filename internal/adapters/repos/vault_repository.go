package repos

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
)

// VaultRepository provides access to secrets stored in HashiCorp Vault.
type VaultRepository struct {
	client *api.Client
}

// NewVaultRepository creates a new VaultRepository with the given client.
func NewVaultRepository(client *api.Client) *VaultRepository {
	return &VaultRepository{
		client: client,
	}
}

// SetToken sets the authentication token on the underlying client.
func (r *VaultRepository) SetToken(token string) {
	r.client.SetToken(token)
}

// GetSecrets reads the secret at the given path.
func (r *VaultRepository) GetSecrets(ctx context.Context, path string) (*api.Secret, error) {
	secret, err := r.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret at %s: %w", path, err)
	}

	return secret, nil
}

// WriteWithContext writes data to the given path.
func (r *VaultRepository) WriteWithContext(ctx context.Context, path string, data map[string]any) (*api.Secret, error) {
	return r.client.Logical().WriteWithContext(ctx, path, data)
}
