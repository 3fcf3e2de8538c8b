package models

import (
	"time"

	"github.com/google/uuid"
)

// Licence is a software licence purchase that can be tied to an asset.
type Licence struct {
	Base
	SoftwareName    string     `json:"software_name" example:"backup-agent"`
	NumberBought    int        `json:"number_bought"`
	NiW             string     `json:"niw,omitempty" gorm:"column:niw"`
	InvoiceNumber   string     `json:"invoice_number,omitempty"`
	Price           float64    `json:"price"`
	ValidThru       *time.Time `json:"valid_thru,omitempty"`
	AssetID         *uuid.UUID `json:"asset_id,omitempty"`
	LicenceTypeName string     `json:"licence_type,omitempty" example:"oem"`

	Asset *Asset `json:"-"`
}

type AddLicence struct {
	SoftwareName    string     `json:"software_name"`
	NumberBought    int        `json:"number_bought"`
	NiW             string     `json:"niw,omitempty"`
	InvoiceNumber   string     `json:"invoice_number,omitempty"`
	Price           float64    `json:"price"`
	ValidThru       *time.Time `json:"valid_thru,omitempty"`
	AssetID         *uuid.UUID `json:"asset_id,omitempty"`
	LicenceTypeName string     `json:"licence_type,omitempty"`
}

type UpdateLicence struct {
	SoftwareName    *string    `json:"software_name,omitempty"`
	NumberBought    *int       `json:"number_bought,omitempty"`
	NiW             *string    `json:"niw,omitempty"`
	InvoiceNumber   *string    `json:"invoice_number,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	ValidThru       *time.Time `json:"valid_thru,omitempty"`
	AssetID         *uuid.UUID `json:"asset_id,omitempty"`
	LicenceTypeName *string    `json:"licence_type,omitempty"`
}
