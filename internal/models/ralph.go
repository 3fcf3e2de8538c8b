package models

import (
	"github.com/google/uuid"
)

// AssetDetails is the flattened asset view served to the hosting inventory
// platform. It folds model, placement and support data into one document so
// callers do not need follow-up lookups.
type AssetDetails struct {
	AssetID           uuid.UUID        `json:"asset_id"`
	DeviceID          *uuid.UUID       `json:"device_id,omitempty"`
	Kind              AssetKind        `json:"kind"`
	Status            AssetStatus      `json:"status"`
	Model             string           `json:"model"`
	Manufacturer      string           `json:"manufacturer,omitempty"`
	Category          string           `json:"category,omitempty"`
	SerialNumber      *string          `json:"sn,omitempty"`
	Barcode           *string          `json:"barcode,omitempty"`
	Hostname          *string          `json:"hostname,omitempty"`
	OrderNumber       string           `json:"order_number,omitempty"`
	InvoiceNumber     string           `json:"invoice_number,omitempty"`
	InventoryNumber   string           `json:"inventory_number,omitempty"`
	Price             float64          `json:"price"`
	Provider          string           `json:"provider,omitempty"`
	Remarks           string           `json:"remarks,omitempty"`
	Service           string           `json:"service,omitempty"`
	DeviceEnvironment string           `json:"device_environment,omitempty"`
	Warehouse         string           `json:"warehouse,omitempty"`
	RequiredSupport   bool             `json:"required_support"`
	Position          int              `json:"position"`
	UHeight           int              `json:"u_height,omitempty"`
	Rack              string           `json:"rack,omitempty"`
	Supports          []SupportSummary `json:"supports"`
}

type SupportSummary struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// AssignAsset asks for a device to be linked to an asset. A nil AssetID
// frees the device from whatever asset holds it.
type AssignAsset struct {
	DeviceID uuid.UUID  `json:"device_id"`
	AssetID  *uuid.UUID `json:"asset_id,omitempty"`
}

// AssignOutcome distinguishes the results the source system collapsed into a
// single boolean.
type AssignOutcome string

const (
	// AssignLinked means the asset was linked and no other asset held the
	// device beforehand.
	AssignLinked AssignOutcome = "linked"
	// AssignRelinked means a previous asset was detached from the device
	// before the requested asset was linked.
	AssignRelinked AssignOutcome = "relinked"
	// AssignUnassigned means no asset id was supplied and the device was
	// freed from its previous asset, if any.
	AssignUnassigned AssignOutcome = "unassigned"
)

type AssignResult struct {
	Outcome  AssignOutcome `json:"outcome"`
	DeviceID uuid.UUID     `json:"device_id"`
	AssetID  *uuid.UUID    `json:"asset_id,omitempty"`
}

// AssignedResult answers "is this asset linked to any device".
type AssignedResult struct {
	AssetID  uuid.UUID `json:"asset_id"`
	Assigned bool      `json:"assigned"`
}
