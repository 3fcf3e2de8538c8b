package models

import (
	"github.com/google/uuid"
)

type PartModelType string

const (
	PartModelDisk       PartModelType = "disk"
	PartModelFcCard     PartModelType = "fc_card"
	PartModelEthCard    PartModelType = "eth_card"
	PartModelController PartModelType = "controller"
	PartModelOther      PartModelType = "other"
)

// PartModel names a kind of interchangeable component.
type PartModel struct {
	Base
	Name      string        `json:"name" gorm:"uniqueIndex" example:"WD Gold 8TB"`
	ModelType PartModelType `json:"model_type" example:"disk"`
}

type AddPartModel struct {
	Name      string        `json:"name"`
	ModelType PartModelType `json:"model_type"`
}

// Part is a component that can be attached to an Asset. Detaching nulls the
// asset reference; parts are never deleted by the attach/detach flow.
type Part struct {
	Base
	SerialNumber      string     `json:"sn" gorm:"column:sn"`
	AssetID           *uuid.UUID `json:"asset_id,omitempty" gorm:"index"`
	ModelID           *uuid.UUID `json:"model_id,omitempty"`
	OrderNumber       string     `json:"order_number,omitempty"`
	Price             float64    `json:"price"`
	Service           string     `json:"service,omitempty"`
	DeviceEnvironment string     `json:"device_environment,omitempty"`
	WarehouseID       uuid.UUID  `json:"warehouse_id"`

	Asset     *Asset     `json:"-"`
	Model     *PartModel `json:"-"`
	Warehouse *Warehouse `json:"-"`
}

// AddParts creates one Part row per serial number, sharing the remaining
// fields.
type AddParts struct {
	SerialNumbers     []string   `json:"sns" example:"sn-101,sn-102"`
	AssetID           *uuid.UUID `json:"asset_id,omitempty"`
	ModelID           *uuid.UUID `json:"model_id,omitempty"`
	OrderNumber       string     `json:"order_number,omitempty"`
	Price             float64    `json:"price"`
	Service           string     `json:"service,omitempty"`
	DeviceEnvironment string     `json:"device_environment,omitempty"`
	WarehouseID       uuid.UUID  `json:"warehouse_id"`
}

type UpdatePart struct {
	SerialNumber      *string    `json:"sn,omitempty"`
	ModelID           *uuid.UUID `json:"model_id,omitempty"`
	OrderNumber       *string    `json:"order_number,omitempty"`
	Price             *float64   `json:"price,omitempty"`
	Service           *string    `json:"service,omitempty"`
	DeviceEnvironment *string    `json:"device_environment,omitempty"`
	WarehouseID       *uuid.UUID `json:"warehouse_id,omitempty"`
}

// ExchangeParts is a request to attach one set of parts to an asset and
// detach another, by serial number. The two sets must be disjoint.
type ExchangeParts struct {
	Attach []string `json:"attach" example:"sn-101,sn-102"`
	Detach []string `json:"detach" example:"sn-205"`
}

// ExchangeResult reports what a part exchange did.
type ExchangeResult struct {
	Attached []string `json:"attached"`
	Detached []string `json:"detached"`
	Created  []string `json:"created"`
}
