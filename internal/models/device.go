package models

// Device is the core inventory record an Asset may be linked to. Placeholder
// devices are created automatically when an asset is saved with no matching
// device; those carry the asset's model name, warehouse and order number.
type Device struct {
	Base
	Name              string  `json:"name" example:"app-server-12"`
	Barcode           *string `json:"barcode,omitempty"`
	DataCenter        string  `json:"dc,omitempty" gorm:"column:dc"`
	Remarks           string  `json:"remarks,omitempty"`
	Service           string  `json:"service,omitempty"`
	DeviceEnvironment string  `json:"device_environment,omitempty"`
	ManagementIP      string  `json:"management_ip,omitempty"`
	Deleted           bool    `json:"deleted"`
}

type AddDevice struct {
	Name              string  `json:"name"`
	Barcode           *string `json:"barcode,omitempty"`
	DataCenter        string  `json:"dc,omitempty"`
	Remarks           string  `json:"remarks,omitempty"`
	Service           string  `json:"service,omitempty"`
	DeviceEnvironment string  `json:"device_environment,omitempty"`
	ManagementIP      string  `json:"management_ip,omitempty"`
}

type UpdateDevice struct {
	Name              *string `json:"name,omitempty"`
	Barcode           *string `json:"barcode,omitempty"`
	DataCenter        *string `json:"dc,omitempty"`
	Remarks           *string `json:"remarks,omitempty"`
	Service           *string `json:"service,omitempty"`
	DeviceEnvironment *string `json:"device_environment,omitempty"`
	ManagementIP      *string `json:"management_ip,omitempty"`
	Deleted           *bool   `json:"deleted,omitempty"`
}
