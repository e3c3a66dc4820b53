package services

import (
	"context"
	"time"

	"github.com/carlosduarte/devices-api/internal/domain/model"
	"github.com/carlosduarte/devices-api/internal/ports"
)

// DevicesService enforces the device business rules on top of the
// repository. The read-check-write sequence in update and delete is not
// serialized against concurrent writers to the same id.
type DevicesService struct {
	repo ports.DeviceRepository
	now  func() time.Time
}

func NewDevicesService(repo ports.DeviceRepository) *DevicesService {
	return &DevicesService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *DevicesService) FindByID(ctx context.Context, id model.DeviceID) (*model.Device, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DevicesService) FindAllByBrand(ctx context.Context, brand string) ([]*model.Device, error) {
	return s.repo.ListByBrand(ctx, brand)
}

func (s *DevicesService) FindAllByState(ctx context.Context, state model.State) ([]*model.Device, error) {
	return s.repo.ListByState(ctx, state)
}

func (s *DevicesService) FindAll(ctx context.Context) ([]*model.Device, error) {
	return s.repo.ListAll(ctx)
}

// CreateDevice persists a new device. State is forced to AVAILABLE; a
// caller-supplied state is ignored on creation.
func (s *DevicesService) CreateDevice(ctx context.Context, req model.CreateUpdateDevice) (*model.Device, error) {
	if !req.ValidForCreation() {
		return nil, model.ErrInvalidDeviceDetails
	}

	device, err := model.NewDevice(req.Name, req.Brand, model.StateAvailable, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, device); err != nil {
		return nil, err
	}

	return device, nil
}

// UpdateDevice merges present request fields over the stored device.
// An in-use device accepts only state-only updates.
func (s *DevicesService) UpdateDevice(ctx context.Context, id model.DeviceID, req model.CreateUpdateDevice) error {
	if !req.ValidForUpdate() {
		return model.ErrEmptyUpdate
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !existing.CanUpdateNameAndBrand() && !req.StateOnly() {
		return model.ErrCannotUpdateInUseDevice
	}

	merged := existing.Merge(req)

	return s.repo.Update(ctx, &merged)
}

func (s *DevicesService) DeleteDevice(ctx context.Context, id model.DeviceID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !existing.CanDelete() {
		return model.ErrCannotDeleteInUseDevice
	}

	return s.repo.Delete(ctx, id)
}
