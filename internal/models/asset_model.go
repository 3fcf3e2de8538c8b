package models

import (
	"github.com/google/uuid"
)

// AssetCategory groups asset models. The Code is the short uppercase token
// used as the hostname postfix for assets in the category.
type AssetCategory struct {
	Base
	Name string `json:"name" example:"rack server"`
	Code string `json:"code" gorm:"uniqueIndex" example:"SV"`
}

type AddAssetCategory struct {
	Name string `json:"name"`
	Code string `json:"code" example:"SV"`
}

// AssetModel is a manufacturer model assets are instances of.
type AssetModel struct {
	Base
	Name         string     `json:"name" gorm:"uniqueIndex" example:"PowerEdge R640"`
	Manufacturer string     `json:"manufacturer,omitempty" example:"Dell"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`

	Category *AssetCategory `json:"-"`
}

type AddAssetModel struct {
	Name         string     `json:"name"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
}

type UpdateAssetModel struct {
	Name         *string    `json:"name,omitempty"`
	Manufacturer *string    `json:"manufacturer,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
}
