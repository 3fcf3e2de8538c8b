package models

import (
	"fmt"

	"github.com/google/uuid"
)

type Orientation string

const (
	OrientationFront  Orientation = "front"
	OrientationBack   Orientation = "back"
	OrientationMiddle Orientation = "middle"
	OrientationLeft   Orientation = "left"
	OrientationRight  Orientation = "right"
)

// IsWidth reports whether the orientation is horizontal (slot 0 accessories
// mounted on the side of a rack).
func (o Orientation) IsWidth() bool {
	return o == OrientationLeft || o == OrientationRight
}

func (o Orientation) IsDepth() bool {
	return o == OrientationFront || o == OrientationBack || o == OrientationMiddle
}

// DeviceInfo is the data-center extension of an Asset. It holds the physical
// placement and the optional link to a core Device. At most one DeviceInfo
// may reference a given device, enforced by a unique index on device_id.
type DeviceInfo struct {
	Base
	AssetID     uuid.UUID   `json:"asset_id" gorm:"index"`
	DeviceID    *uuid.UUID  `json:"device_id,omitempty" gorm:"column:ralph_device_id"`
	RackID      *uuid.UUID  `json:"rack_id,omitempty"`
	Position    int         `json:"position"`
	SlotNumber  *int        `json:"slot_number,omitempty"`
	Orientation Orientation `json:"orientation" example:"front"`
	UHeight     int         `json:"u_height,omitempty"`

	Rack *Rack `json:"-"`
}

// AddDeviceInfo is the placement part of an asset create/update request.
type AddDeviceInfo struct {
	RackID      *uuid.UUID  `json:"rack_id,omitempty"`
	Position    int         `json:"position"`
	SlotNumber  *int        `json:"slot_number,omitempty"`
	Orientation Orientation `json:"orientation" example:"front"`
	UHeight     int         `json:"u_height,omitempty"`
}

// Validate checks the placement constraints:
//   - position 0 permits only width orientations (left, right)
//   - position > 0 permits only depth orientations (front, middle, back)
//   - position may not exceed the rack's max U height
func (d *AddDeviceInfo) Validate(rack *Rack) error {
	if d.Orientation == "" {
		d.Orientation = OrientationFront
	}
	if d.Position == 0 && !d.Orientation.IsWidth() {
		return fmt.Errorf("valid orientations for position 0 are: %s, %s",
			OrientationLeft, OrientationRight)
	}
	if d.Position > 0 && !d.Orientation.IsDepth() {
		return fmt.Errorf("valid orientations for position %d are: %s, %s, %s",
			d.Position, OrientationFront, OrientationMiddle, OrientationBack)
	}
	if d.Position < 0 {
		return fmt.Errorf("position may not be negative")
	}
	if rack != nil && d.Position > rack.MaxUHeight {
		return fmt.Errorf("position is higher than rack max u height = %d", rack.MaxUHeight)
	}
	return nil
}

// Rack is a named rack in a data center.
type Rack struct {
	Base
	Name       string `json:"name" example:"rack-101"`
	DataCenter string `json:"data_center" example:"dc2"`
	MaxUHeight int    `json:"max_u_height" gorm:"default:48"`
}

type AddRack struct {
	Name       string `json:"name"`
	DataCenter string `json:"data_center"`
	MaxUHeight int    `json:"max_u_height"`
}
