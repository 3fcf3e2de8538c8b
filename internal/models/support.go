package models

import (
	"time"
)

// Support is a support contract assets can reference.
type Support struct {
	Base
	Name       string     `json:"name" example:"hp care pack"`
	ContractID string     `json:"contract_id,omitempty"`
	URL        string     `json:"url,omitempty"`
	Price      float64    `json:"price"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`

	Assets []*Asset `json:"-" gorm:"many2many:asset_supports;"`
}

type AddSupport struct {
	Name       string     `json:"name"`
	ContractID string     `json:"contract_id,omitempty"`
	URL        string     `json:"url,omitempty"`
	Price      float64    `json:"price"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
}

type UpdateSupport struct {
	Name       *string    `json:"name,omitempty"`
	ContractID *string    `json:"contract_id,omitempty"`
	URL        *string    `json:"url,omitempty"`
	Price      *float64   `json:"price,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
}
