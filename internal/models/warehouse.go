package models

// Warehouse is a named stock location.
type Warehouse struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex" example:"warsaw-dc2"`
}

type AddWarehouse struct {
	Name string `json:"name" example:"warsaw-dc2"`
}

type UpdateWarehouse struct {
	Name *string `json:"name,omitempty"`
}
