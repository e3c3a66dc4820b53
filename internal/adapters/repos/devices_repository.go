package repos

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/carlosduarte/devices-api/internal/domain/model"
	"github.com/carlosduarte/devices-api/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const deviceTable = "device"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type (
	// PoolOps defines the interface for database operations.
	// This allows injecting mock implementations for testing.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Ping(ctx context.Context) error
	}

	// DevicesRepository handles device persistence operations.
	DevicesRepository struct {
		pool    PoolOps
		scanner Scanner
		logger  logger.Logger
	}

	deviceRow struct {
		ID           int64     `db:"id"`
		Name         string    `db:"name"`
		Brand        string    `db:"brand"`
		State        string    `db:"state"`
		CreationTime time.Time `db:"creation_time"`
	}
)

// NewDevicesRepository creates a new DevicesRepository with the given dependencies.
func NewDevicesRepository(pool PoolOps, scanner Scanner, log logger.Logger) *DevicesRepository {
	return &DevicesRepository{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

// Create persists the device and fills in its storage-assigned ID.
func (r *DevicesRepository) Create(ctx context.Context, device *model.Device) error {
	query, args, err := psql.Insert(deviceTable).
		Columns("name", "brand", "state", "creation_time").
		Values(
			device.Name,
			device.Brand,
			device.State.String(),
			device.CreationTime,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		r.logger.Error().Err(err).Msg("device insert failed")

		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	device.ID = model.DeviceID(id)

	return nil
}

func (r *DevicesRepository) GetByID(ctx context.Context, id model.DeviceID) (*model.Device, error) {
	return r.findByCriteria(
		ctx,
		sq.Eq{"id": int64(id)},
		fmt.Sprintf("device with ID %d not found", id),
	)
}

func (r *DevicesRepository) ListByBrand(ctx context.Context, brand string) ([]*model.Device, error) {
	return r.queryDevices(ctx, selectDevices().Where(sq.Eq{"brand": brand}))
}

func (r *DevicesRepository) ListByState(ctx context.Context, state model.State) ([]*model.Device, error) {
	return r.queryDevices(ctx, selectDevices().Where(sq.Eq{"state": state.String()}))
}

func (r *DevicesRepository) ListAll(ctx context.Context) ([]*model.Device, error) {
	return r.queryDevices(ctx, selectDevices())
}

func (r *DevicesRepository) Update(ctx context.Context, device *model.Device) error {
	query, args, err := psql.Update(deviceTable).
		Set("name", device.Name).
		Set("brand", device.Brand).
		Set("state", device.State.String()).
		Where(sq.Eq{"id": int64(device.ID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("device update failed")

		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrDeviceNotFound
	}

	return nil
}

func (r *DevicesRepository) Delete(ctx context.Context, id model.DeviceID) error {
	query, args, err := psql.Delete(deviceTable).
		Where(sq.Eq{"id": int64(id)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("device delete failed")

		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrDeviceNotFoundForDeletion
	}

	return nil
}

func (r *DevicesRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func selectDevices() sq.SelectBuilder {
	return psql.Select("id", "name", "brand", "state", "creation_time").
		From(deviceTable).
		OrderBy("id ASC")
}

func (r *DevicesRepository) findByCriteria(
	ctx context.Context,
	criteria sq.Sqlizer,
	errorContext string,
) (*model.Device, error) {
	query, args, err := psql.Select("id", "name", "brand", "state", "creation_time").
		From(deviceTable).
		Where(criteria).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("device select failed")

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var row deviceRow
	if err := r.scanner.ScanOne(&row, rows); err != nil {
		if r.scanner.IsNotFound(err) {
			return nil, model.ErrDeviceNotFound
		}

		return nil, fmt.Errorf("%s: %w", errorContext, err)
	}

	return r.convertRowToDevice(row)
}

func (r *DevicesRepository) queryDevices(ctx context.Context, builder sq.SelectBuilder) ([]*model.Device, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("device select failed")

		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var deviceRows []deviceRow
	if err := r.scanner.ScanAll(&deviceRows, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	devices := make([]*model.Device, 0, len(deviceRows))
	for index := range deviceRows {
		device, err := r.convertRowToDevice(deviceRows[index])
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return devices, nil
}

// convertRowToDevice maps a stored row onto the domain entity. A row that
// fails to map is corrupt data, so the error is a storage fault rather
// than an input error.
func (r *DevicesRepository) convertRowToDevice(row deviceRow) (*model.Device, error) {
	state, err := model.ParseState(row.State)
	if err != nil {
		r.logger.Error().
			Int64("device_id", row.ID).
			Str("state", row.State).
			Msg("stored device row has an unknown state")

		return nil, fmt.Errorf("%w: device %d has invalid state %q", model.ErrDatabaseQuery, row.ID, row.State)
	}

	return &model.Device{
		ID:           model.DeviceID(row.ID),
		Name:         row.Name,
		Brand:        row.Brand,
		State:        state,
		CreationTime: row.CreationTime,
	}, nil
}
