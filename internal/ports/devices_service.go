package ports

import (
	"context"

	"github.com/carlosduarte/devices-api/internal/domain/model"
)

// DevicesService defines the interface for device business operations.
type DevicesService interface {
	// FindByID retrieves a device by its ID.
	FindByID(ctx context.Context, id model.DeviceID) (*model.Device, error)

	// FindAllByBrand retrieves devices with an exactly matching brand.
	FindAllByBrand(ctx context.Context, brand string) ([]*model.Device, error)

	// FindAllByState retrieves devices in the given state.
	FindAllByState(ctx context.Context, state model.State) ([]*model.Device, error)

	// FindAll retrieves every device.
	FindAll(ctx context.Context) ([]*model.Device, error)

	// CreateDevice validates the request and persists a new device with
	// state forced to AVAILABLE.
	CreateDevice(ctx context.Context, req model.CreateUpdateDevice) (*model.Device, error)

	// UpdateDevice merges the request over the existing device, subject
	// to the in-use guard.
	UpdateDevice(ctx context.Context, id model.DeviceID, req model.CreateUpdateDevice) error

	// DeleteDevice removes a device unless it is in use.
	DeleteDevice(ctx context.Context, id model.DeviceID) error
}
