package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/carlosduarte/devices-api/internal/domain/model"
	"github.com/carlosduarte/devices-api/internal/infrastructure"
	"github.com/carlosduarte/devices-api/internal/usecases/commands"
	"github.com/carlosduarte/devices-api/pkg/logger"
	"github.com/carlosduarte/devices-api/pkg/metrics/noop"
	"github.com/stretchr/testify/require"
)

type mockDevicesService struct {
	findByIDFn       func(ctx context.Context, id model.DeviceID) (*model.Device, error)
	findAllByBrandFn func(ctx context.Context, brand string) ([]*model.Device, error)
	findAllByStateFn func(ctx context.Context, state model.State) ([]*model.Device, error)
	findAllFn        func(ctx context.Context) ([]*model.Device, error)
	createDeviceFn   func(ctx context.Context, req model.CreateUpdateDevice) (*model.Device, error)
	updateDeviceFn   func(ctx context.Context, id model.DeviceID, req model.CreateUpdateDevice) error
	deleteDeviceFn   func(ctx context.Context, id model.DeviceID) error
}

func newMockDevicesService() *mockDevicesService {
	return &mockDevicesService{}
}

func (m *mockDevicesService) FindByID(ctx context.Context, id model.DeviceID) (*model.Device, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}

	return nil, model.ErrDeviceNotFound
}

func (m *mockDevicesService) FindAllByBrand(ctx context.Context, brand string) ([]*model.Device, error) {
	if m.findAllByBrandFn != nil {
		return m.findAllByBrandFn(ctx, brand)
	}

	return []*model.Device{}, nil
}

func (m *mockDevicesService) FindAllByState(ctx context.Context, state model.State) ([]*model.Device, error) {
	if m.findAllByStateFn != nil {
		return m.findAllByStateFn(ctx, state)
	}

	return []*model.Device{}, nil
}

func (m *mockDevicesService) FindAll(ctx context.Context) ([]*model.Device, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}

	return []*model.Device{}, nil
}

func (m *mockDevicesService) CreateDevice(ctx context.Context, req model.CreateUpdateDevice) (*model.Device, error) {
	if m.createDeviceFn != nil {
		return m.createDeviceFn(ctx, req)
	}

	return &model.Device{
		ID:           model.DeviceID(1),
		Name:         req.Name,
		Brand:        req.Brand,
		State:        model.StateAvailable,
		CreationTime: time.Now().UTC(),
	}, nil
}

func (m *mockDevicesService) UpdateDevice(ctx context.Context, id model.DeviceID, req model.CreateUpdateDevice) error {
	if m.updateDeviceFn != nil {
		return m.updateDeviceFn(ctx, id, req)
	}

	return model.ErrDeviceNotFound
}

func (m *mockDevicesService) DeleteDevice(ctx context.Context, id model.DeviceID) error {
	if m.deleteDeviceFn != nil {
		return m.deleteDeviceFn(ctx, id)
	}

	return model.ErrDeviceNotFound
}

func TestCreateDeviceCommandHandler(t *testing.T) {
	t.Parallel()

	log := logger.New("debug", "console")
	tp := infrastructure.NewNoopTracerProvider()
	mc := noop.NewMetricsClient()

	cases := []struct {
		name        string
		cmd         commands.CreateDeviceCommand
		setupSvc    func(*mockDevicesService)
		expectError bool
		expectedErr error
	}{
		{
			name: "successfully create device",
			cmd: commands.CreateDeviceCommand{
				Request: model.CreateUpdateDevice{
					Name:  "Test Device",
					Brand: "Test Brand",
				},
			},
			expectError: false,
		},
		{
			name: "invalid details propagate from the service",
			cmd: commands.CreateDeviceCommand{
				Request: model.CreateUpdateDevice{
					Name: "Missing Brand",
				},
			},
			setupSvc: func(m *mockDevicesService) {
				m.createDeviceFn = func(_ context.Context, _ model.CreateUpdateDevice) (*model.Device, error) {
					return nil, model.ErrInvalidDeviceDetails
				}
			},
			expectError: true,
			expectedErr: model.ErrInvalidDeviceDetails,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newMockDevicesService()
			if tc.setupSvc != nil {
				tc.setupSvc(svc)
			}

			handler := commands.NewCreateDeviceCommandHandler(svc, log, mc, tp)
			ctx := context.Background()

			device, err := handler.Handle(ctx, tc.cmd)

			if tc.expectError {
				require.Error(t, err)
				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)
				}
				require.Nil(t, device)
			} else {
				require.NoError(t, err)
				require.NotNil(t, device)
				require.Equal(t, tc.cmd.Request.Name, device.Name)
				require.Equal(t, tc.cmd.Request.Brand, device.Brand)
				require.Equal(t, model.StateAvailable, device.State)
				require.NotZero(t, device.ID)
			}
		})
	}
}

func TestUpdateDeviceCommandHandler(t *testing.T) {
	t.Parallel()

	log := logger.New("debug", "console")
	tp := infrastructure.NewNoopTracerProvider()
	mc := noop.NewMetricsClient()

	inUse := model.StateInUse

	cases := []struct {
		name        string
		cmd         commands.UpdateDeviceCommand
		setupSvc    func(*mockDevicesService)
		expectError bool
		expectedErr error
	}{
		{
			name: "successfully update device",
			cmd: commands.UpdateDeviceCommand{
				ID: model.DeviceID(1),
				Request: model.CreateUpdateDevice{
					Name:  "Updated Name",
					Brand: "Updated Brand",
				},
			},
			setupSvc: func(m *mockDevicesService) {
				m.updateDeviceFn = func(_ context.Context, _ model.DeviceID, _ model.CreateUpdateDevice) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "cannot rename in-use device",
			cmd: commands.UpdateDeviceCommand{
				ID: model.DeviceID(2),
				Request: model.CreateUpdateDevice{
					Name:  "New Name",
					State: &inUse,
				},
			},
			setupSvc: func(m *mockDevicesService) {
				m.updateDeviceFn = func(_ context.Context, _ model.DeviceID, _ model.CreateUpdateDevice) error {
					return model.ErrCannotUpdateInUseDevice
				}
			},
			expectError: true,
			expectedErr: model.ErrCannotUpdateInUseDevice,
		},
		{
			name: "device not found",
			cmd: commands.UpdateDeviceCommand{
				ID: model.DeviceID(3),
				Request: model.CreateUpdateDevice{
					Name: "Name",
				},
			},
			expectError: true,
			expectedErr: model.ErrDeviceNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newMockDevicesService()
			if tc.setupSvc != nil {
				tc.setupSvc(svc)
			}

			handler := commands.NewUpdateDeviceCommandHandler(svc, log, mc, tp)
			ctx := context.Background()

			_, err := handler.Handle(ctx, tc.cmd)

			if tc.expectError {
				require.Error(t, err)
				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDeleteDeviceCommandHandler(t *testing.T) {
	t.Parallel()

	log := logger.New("debug", "console")
	tp := infrastructure.NewNoopTracerProvider()
	mc := noop.NewMetricsClient()

	cases := []struct {
		name        string
		setupSvc    func(*mockDevicesService)
		expectError bool
		expectedErr error
	}{
		{
			name: "successfully delete device",
			setupSvc: func(m *mockDevicesService) {
				m.deleteDeviceFn = func(_ context.Context, _ model.DeviceID) error {
					return nil
				}
			},
			expectError: false,
		},
		{
			name: "cannot delete in-use device",
			setupSvc: func(m *mockDevicesService) {
				m.deleteDeviceFn = func(_ context.Context, _ model.DeviceID) error {
					return model.ErrCannotDeleteInUseDevice
				}
			},
			expectError: true,
			expectedErr: model.ErrCannotDeleteInUseDevice,
		},
		{
			name:        "device not found",
			expectError: true,
			expectedErr: model.ErrDeviceNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newMockDevicesService()
			if tc.setupSvc != nil {
				tc.setupSvc(svc)
			}

			handler := commands.NewDeleteDeviceCommandHandler(svc, log, mc, tp)
			ctx := context.Background()

			_, err := handler.Handle(ctx, commands.DeleteDeviceCommand{ID: model.DeviceID(1)})

			if tc.expectError {
				require.Error(t, err)
				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}
