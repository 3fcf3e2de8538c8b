package migration_20260831_0000

import (
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/google/uuid"

	"github.com/assetd-io/assetd/internal/database/migrations"
)

type Base struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `sql:"index"`
}

type AssetCategory struct {
	Base
	Name string
	Code string `gorm:"uniqueIndex"`
}

type AssetModel struct {
	Base
	Name         string `gorm:"uniqueIndex"`
	Manufacturer string
	CategoryID   *uuid.UUID

	Category *AssetCategory
}

type Warehouse struct {
	Base
	Name string `gorm:"uniqueIndex"`
}

type Rack struct {
	Base
	Name       string
	DataCenter string
	MaxUHeight int `gorm:"default:48"`
}

type Device struct {
	Base
	Name              string
	Barcode           *string
	DataCenter        string `gorm:"column:dc"`
	Remarks           string
	Service           string
	DeviceEnvironment string
	ManagementIP      string
	Deleted           bool
}

type Support struct {
	Base
	Name       string
	ContractID string
	URL        string
	Price      float64
	DateFrom   *time.Time
	DateTo     *time.Time
}

type Asset struct {
	Base
	Kind              string
	Status            string
	SerialNumber      *string `gorm:"column:sn"`
	Barcode           *string
	Hostname          *string
	OrderNumber       string
	InvoiceNumber     string
	InventoryNumber   string
	Price             float64
	Provider          string
	Remarks           string
	OwnerCountry      string
	Service           string
	DeviceEnvironment string
	RequiredSupport   bool
	ModelID           uuid.UUID
	WarehouseID       uuid.UUID

	Model     *AssetModel
	Warehouse *Warehouse
	Supports  []*Support `gorm:"many2many:asset_supports;"`
}

type DeviceInfo struct {
	Base
	AssetID     uuid.UUID `gorm:"index"`
	DeviceID    *uuid.UUID `gorm:"column:ralph_device_id"`
	RackID      *uuid.UUID
	Position    int
	SlotNumber  *int
	Orientation string
	UHeight     int

	Rack *Rack
}

type PartModel struct {
	Base
	Name      string `gorm:"uniqueIndex"`
	ModelType string
}

type Part struct {
	Base
	SerialNumber      string `gorm:"column:sn"`
	AssetID           *uuid.UUID `gorm:"index"`
	ModelID           *uuid.UUID
	OrderNumber       string
	Price             float64
	Service           string
	DeviceEnvironment string
	WarehouseID       uuid.UUID

	Asset     *Asset
	Model     *PartModel
	Warehouse *Warehouse
}

type HostnameSequence struct {
	ID        uint `gorm:"primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Prefix    string `gorm:"size:8;uniqueIndex:idx_hostname_sequences_pair"`
	Postfix   string `gorm:"size:8;uniqueIndex:idx_hostname_sequences_pair"`
	Counter   int
}

type Licence struct {
	Base
	SoftwareName    string
	NumberBought    int
	NiW             string `gorm:"column:niw"`
	InvoiceNumber   string
	Price           float64
	ValidThru       *time.Time
	AssetID         *uuid.UUID
	LicenceTypeName string

	Asset *Asset
}

// Migrations rules:
//
//  1. IDs are numerical timestamps that must sort ascending.
//     Use YYYYMMDD-HHMM w/ 24 hour time for format
//     Example: August 21 2018 at 2:54pm would be 20180821-1454.
//
//  2. Include models inline with migrations to see the evolution of the object
//     over time. Using the internal models directly in the first migration
//     would fail on future clean installations.
//
//  3. Migrations must be backwards compatible. There are no new required
//     fields allowed.
//
//  4. Create one function in a separate package that returns your Migration.

func Migrate() *gormigrate.Migration {
	migrationId := "20260831-0000"

	return migrations.CreateMigrationFromActions(migrationId,
		migrations.CreateTableAction(&AssetCategory{}),
		migrations.CreateTableAction(&AssetModel{}),
		migrations.CreateTableAction(&Warehouse{}),
		migrations.CreateTableAction(&Rack{}),
		migrations.CreateTableAction(&Device{}),
		migrations.ExecAction(
			`CREATE UNIQUE INDEX IF NOT EXISTS "idx_devices_barcode" ON "devices" ("barcode") WHERE "deleted" = false`,
			`DROP INDEX IF EXISTS "idx_devices_barcode"`,
		),
		migrations.CreateTableAction(&Support{}),
		migrations.CreateTableAction(&Asset{}),
		// nullable unique columns get their indexes by hand so that the
		// create works on every supported engine
		migrations.ExecAction(
			`CREATE UNIQUE INDEX IF NOT EXISTS "idx_assets_sn" ON "assets" ("sn")`,
			`DROP INDEX IF EXISTS "idx_assets_sn"`,
		),
		migrations.ExecAction(
			`CREATE UNIQUE INDEX IF NOT EXISTS "idx_assets_barcode" ON "assets" ("barcode")`,
			`DROP INDEX IF EXISTS "idx_assets_barcode"`,
		),
		migrations.ExecAction(
			`CREATE UNIQUE INDEX IF NOT EXISTS "idx_assets_hostname" ON "assets" ("hostname")`,
			`DROP INDEX IF EXISTS "idx_assets_hostname"`,
		),
		migrations.CreateTableAction(&DeviceInfo{}),
		migrations.ExecAction(
			`CREATE UNIQUE INDEX IF NOT EXISTS "idx_device_infos_ralph_device_id" ON "device_infos" ("ralph_device_id")`,
			`DROP INDEX IF EXISTS "idx_device_infos_ralph_device_id"`,
		),
		migrations.CreateTableAction(&PartModel{}),
		migrations.CreateTableAction(&Part{}),
		migrations.ExecAction(
			`CREATE UNIQUE INDEX IF NOT EXISTS "idx_parts_sn" ON "parts" ("sn")`,
			`DROP INDEX IF EXISTS "idx_parts_sn"`,
		),
		migrations.CreateTableAction(&HostnameSequence{}),
		migrations.CreateTableAction(&Licence{}),
	)
}
