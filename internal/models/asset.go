package models

import (
	"github.com/google/uuid"
)

type AssetKind string

const (
	AssetKindDataCenter AssetKind = "data_center"
	AssetKindBackOffice AssetKind = "back_office"
)

func (k AssetKind) Valid() bool {
	return k == AssetKindDataCenter || k == AssetKindBackOffice
}

type AssetStatus string

const (
	StatusNew               AssetStatus = "new"
	StatusInProgress        AssetStatus = "in_progress"
	StatusWaitingForRelease AssetStatus = "waiting_for_release"
	StatusUsed              AssetStatus = "used"
	StatusLoan              AssetStatus = "loan"
	StatusDamaged           AssetStatus = "damaged"
	StatusLiquidated        AssetStatus = "liquidated"
	StatusInService         AssetStatus = "in_service"
	StatusInRepair          AssetStatus = "in_repair"
	StatusOk                AssetStatus = "ok"
	StatusToDeploy          AssetStatus = "to_deploy"
)

var assetStatuses = map[AssetStatus]struct{}{
	StatusNew: {}, StatusInProgress: {}, StatusWaitingForRelease: {},
	StatusUsed: {}, StatusLoan: {}, StatusDamaged: {}, StatusLiquidated: {},
	StatusInService: {}, StatusInRepair: {}, StatusOk: {}, StatusToDeploy: {},
}

func (s AssetStatus) Valid() bool {
	_, ok := assetStatuses[s]
	return ok
}

// Asset is a tracked inventory record, either data-center hardware or a
// back-office item.
type Asset struct {
	Base
	Kind              AssetKind   `json:"kind" example:"data_center"`
	Status            AssetStatus `json:"status" example:"new"`
	SerialNumber      *string     `json:"sn,omitempty" gorm:"column:sn"`
	Barcode           *string     `json:"barcode,omitempty"`
	Hostname          *string     `json:"hostname,omitempty" example:"POLSV00001"`
	OrderNumber       string      `json:"order_number,omitempty"`
	InvoiceNumber     string      `json:"invoice_number,omitempty"`
	InventoryNumber   string      `json:"inventory_number,omitempty"`
	Price             float64     `json:"price"`
	Provider          string      `json:"provider,omitempty"`
	Remarks           string      `json:"remarks,omitempty"`
	OwnerCountry      string      `json:"owner_country,omitempty" example:"pl"`
	Service           string      `json:"service,omitempty"`
	DeviceEnvironment string      `json:"device_environment,omitempty" example:"prod"`
	RequiredSupport   bool        `json:"required_support"`
	ModelID           uuid.UUID   `json:"model_id"`
	WarehouseID       uuid.UUID   `json:"warehouse_id"`

	Model      *AssetModel `json:"-"`
	Warehouse  *Warehouse  `json:"-"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
	Parts      []*Part     `json:"-"`
	Supports   []*Support  `json:"-" gorm:"many2many:asset_supports;"`
}

// AddAsset is the information needed to add a new Asset.
type AddAsset struct {
	Kind              AssetKind   `json:"kind" example:"data_center"`
	Status            AssetStatus `json:"status" example:"new"`
	SerialNumber      *string     `json:"sn,omitempty"`
	Barcode           *string     `json:"barcode,omitempty"`
	OrderNumber       string      `json:"order_number,omitempty"`
	InvoiceNumber     string      `json:"invoice_number,omitempty"`
	InventoryNumber   string      `json:"inventory_number,omitempty"`
	Price             float64     `json:"price"`
	Provider          string      `json:"provider,omitempty"`
	Remarks           string      `json:"remarks,omitempty"`
	OwnerCountry      string      `json:"owner_country,omitempty" example:"pl"`
	Service           string      `json:"service,omitempty"`
	DeviceEnvironment string      `json:"device_environment,omitempty"`
	RequiredSupport   bool        `json:"required_support"`
	ModelID           uuid.UUID   `json:"model_id"`
	WarehouseID       uuid.UUID   `json:"warehouse_id"`
	SupportIDs        []uuid.UUID `json:"support_ids,omitempty"`

	DeviceInfo *AddDeviceInfo `json:"device_info,omitempty"`
	Linkage    *LinkRequest   `json:"linkage,omitempty"`
}

// UpdateAsset carries the mutable Asset fields. Pointers distinguish
// "leave alone" from "set to zero value".
type UpdateAsset struct {
	Status            *AssetStatus `json:"status,omitempty"`
	SerialNumber      *string      `json:"sn,omitempty"`
	Barcode           *string      `json:"barcode,omitempty"`
	OrderNumber       *string      `json:"order_number,omitempty"`
	InvoiceNumber     *string      `json:"invoice_number,omitempty"`
	InventoryNumber   *string      `json:"inventory_number,omitempty"`
	Price             *float64     `json:"price,omitempty"`
	Provider          *string      `json:"provider,omitempty"`
	Remarks           *string      `json:"remarks,omitempty"`
	OwnerCountry      *string      `json:"owner_country,omitempty"`
	Service           *string      `json:"service,omitempty"`
	DeviceEnvironment *string      `json:"device_environment,omitempty"`
	RequiredSupport   *bool        `json:"required_support,omitempty"`
	ModelID           *uuid.UUID   `json:"model_id,omitempty"`
	WarehouseID       *uuid.UUID   `json:"warehouse_id,omitempty"`
	SupportIDs        *[]uuid.UUID `json:"support_ids,omitempty"`

	DeviceInfo *AddDeviceInfo `json:"device_info,omitempty"`
	Linkage    *LinkRequest   `json:"linkage,omitempty"`
}

// LinkRequest asks for the asset to be linked to a core device. When
// DeviceID is nil the device is looked up by the asset's barcode and a
// placeholder device is created if none matches. ForceUnlink permits
// stealing a device that is linked to another asset.
type LinkRequest struct {
	DeviceID    *uuid.UUID `json:"device_id,omitempty"`
	ForceUnlink bool       `json:"force_unlink"`
}
