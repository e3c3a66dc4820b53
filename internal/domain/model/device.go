package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DeviceID is the storage-assigned device key.
type DeviceID int64

// ParseDeviceID parses a path token into a DeviceID.
func ParseDeviceID(s string) (DeviceID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDeviceID, s)
	}

	return DeviceID(id), nil
}

func (d DeviceID) String() string {
	return strconv.FormatInt(int64(d), 10)
}

func (d DeviceID) IsZero() bool {
	return d == 0
}

type Device struct {
	ID           DeviceID
	Name         string
	Brand        string
	State        State
	CreationTime time.Time
}

// NewDevice constructs a validated Device. The ID is zero until the
// storage layer assigns one; CreationTime is set once and never mutated.
func NewDevice(name, brand string, state State, creationTime time.Time) (*Device, error) {
	if isBlank(name) {
		return nil, fmt.Errorf("%w: name cannot be blank", ErrInvalidDeviceDetails)
	}

	if isBlank(brand) {
		return nil, fmt.Errorf("%w: brand cannot be blank", ErrInvalidDeviceDetails)
	}

	if !state.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, state)
	}

	return &Device{
		Name:         name,
		Brand:        brand,
		State:        state,
		CreationTime: creationTime,
	}, nil
}

// CanUpdateNameAndBrand reports whether identity fields may change.
// They are frozen while the device is allocated to a consumer.
func (d *Device) CanUpdateNameAndBrand() bool {
	return d.State != StateInUse
}

func (d *Device) CanDelete() bool {
	return d.State != StateInUse
}

// Merge returns a copy of the device with every present request field
// applied. ID and CreationTime are never altered.
func (d *Device) Merge(req CreateUpdateDevice) Device {
	merged := *d

	if !isBlank(req.Name) {
		merged.Name = req.Name
	}

	if !isBlank(req.Brand) {
		merged.Brand = req.Brand
	}

	if req.State != nil {
		merged.State = *req.State
	}

	return merged
}

// CreateUpdateDevice is the transient input for create and update.
// A blank string or nil state means the field is absent.
type CreateUpdateDevice struct {
	Name  string
	Brand string
	State *State
}

// ValidForCreation reports whether the request carries both identity
// fields, ignoring whitespace-only values.
func (r CreateUpdateDevice) ValidForCreation() bool {
	return !isBlank(r.Name) && !isBlank(r.Brand)
}

// ValidForUpdate reports whether at least one field is present.
func (r CreateUpdateDevice) ValidForUpdate() bool {
	return !isBlank(r.Name) || !isBlank(r.Brand) || r.State != nil
}

// StateOnly reports whether the request changes nothing but state. This
// is the single mutation an in-use device accepts.
func (r CreateUpdateDevice) StateOnly() bool {
	return r.State != nil && isBlank(r.Name) && isBlank(r.Brand)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
