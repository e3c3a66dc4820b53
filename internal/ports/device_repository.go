package ports

import (
	"context"

	"github.com/carlosduarte/devices-api/internal/domain/model"
)

// DeviceRepository defines the interface for device persistence operations.
type DeviceRepository interface {
	// Create stores a new device and fills in its storage-assigned ID.
	Create(ctx context.Context, device *model.Device) error

	// GetByID retrieves a device by its ID.
	GetByID(ctx context.Context, id model.DeviceID) (*model.Device, error)

	// ListByBrand retrieves all devices with an exactly matching brand.
	ListByBrand(ctx context.Context, brand string) ([]*model.Device, error)

	// ListByState retrieves all devices in the given state.
	ListByState(ctx context.Context, state model.State) ([]*model.Device, error)

	// ListAll retrieves every stored device, in storage-defined order.
	ListAll(ctx context.Context) ([]*model.Device, error)

	// Update rewrites the mutable columns of an existing device row.
	Update(ctx context.Context, device *model.Device) error

	// Delete removes a device row by its ID.
	Delete(ctx context.Context, id model.DeviceID) error
}
