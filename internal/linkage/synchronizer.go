// Package linkage keeps an Asset and its optional core Device counterpart
// consistent. It owns the decision on asset save of whether to link an
// explicit device, reuse one found by barcode, create a placeholder, or
// reject a link that would steal a device from another asset.
package linkage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/assetd-io/assetd/internal/models"
)

// ErrDeviceLinked is returned when the requested device is already linked to
// a different asset and force_unlink was not set.
var ErrDeviceLinked = errors.New("device with this barcode is already linked to another asset, set force_unlink to relink it")

// ErrDeviceNotFound is returned when an explicit device id names no live
// device. Soft-deleted devices are not linkable.
var ErrDeviceNotFound = errors.New("device not found")

type Synchronizer struct {
	logger *zap.SugaredLogger
}

func NewSynchronizer(logger *zap.SugaredLogger) *Synchronizer {
	return &Synchronizer{logger: logger}
}

// Apply resolves a link request for the asset inside tx. The asset's
// DeviceInfo, Model and Warehouse must be loaded. On return the DeviceInfo
// row has been saved with the resolved device id.
//
// Resolution order:
//  1. an explicit device id wins,
//  2. otherwise the asset's barcode is matched against device barcodes,
//  3. otherwise a placeholder device is created from the asset's fields.
//
// A device held by another asset is only stolen when req.ForceUnlink is set;
// the previous holder's link is nulled first.
func (s *Synchronizer) Apply(ctx context.Context, tx *gorm.DB, asset *models.Asset, req models.LinkRequest) error {
	if asset.DeviceInfo == nil {
		return errors.New("asset has no device info, linkage applies to data-center assets only")
	}
	db := tx.WithContext(ctx)

	var device models.Device
	switch {
	case req.DeviceID != nil:
		if res := db.First(&device, "id = ? AND deleted = ?", *req.DeviceID, false); res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return ErrDeviceNotFound
			}
			return res.Error
		}
	case asset.Barcode != nil && *asset.Barcode != "":
		res := db.First(&device, "barcode = ? AND deleted = ?", *asset.Barcode, false)
		if res.Error != nil {
			if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return res.Error
			}
			return s.createPlaceholder(ctx, db, asset)
		}
	default:
		return s.createPlaceholder(ctx, db, asset)
	}

	// The found device may be held by another asset.
	var holder models.DeviceInfo
	res := db.First(&holder, "ralph_device_id = ? AND asset_id <> ?", device.ID, asset.ID)
	if res.Error == nil {
		if !req.ForceUnlink {
			return ErrDeviceLinked
		}
		holder.DeviceID = nil
		if res := db.Save(&holder); res.Error != nil {
			return res.Error
		}
		s.logger.Infof("force unlinked device [ %s ] from asset [ %s ]", device.ID, holder.AssetID)
	} else if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return res.Error
	}

	asset.DeviceInfo.DeviceID = &device.ID
	if res := db.Save(asset.DeviceInfo); res.Error != nil {
		return res.Error
	}
	// Existing device data is preserved; only the synchronized fields are
	// projected onto it.
	return s.SyncAssetToDevice(ctx, db, asset, &device)
}

// createPlaceholder makes a stock ("dummy") device for an asset with no
// device to link to, seeded from the asset's model, warehouse and order
// number, and links the asset to it.
func (s *Synchronizer) createPlaceholder(ctx context.Context, db *gorm.DB, asset *models.Asset) error {
	device := models.Device{
		Name:              placeholderName(asset),
		Barcode:           asset.Barcode,
		Remarks:           asset.OrderNumber,
		Service:           asset.Service,
		DeviceEnvironment: asset.DeviceEnvironment,
	}
	if asset.Warehouse != nil {
		device.DataCenter = asset.Warehouse.Name
	}
	if res := db.Create(&device); res.Error != nil {
		return res.Error
	}
	asset.DeviceInfo.DeviceID = &device.ID
	if res := db.Save(asset.DeviceInfo); res.Error != nil {
		return res.Error
	}
	s.logger.Infof("created placeholder device [ %s ] for asset [ %s ]", device.ID, asset.ID)
	return nil
}

func placeholderName(asset *models.Asset) string {
	if asset.Model != nil {
		return asset.Model.Name
	}
	return "unknown"
}

// SyncAssetToDevice projects the synchronized fields from the asset onto its
// linked device. Called whenever the asset side is saved; the side being
// saved is the writer, so asset values win here.
func (s *Synchronizer) SyncAssetToDevice(ctx context.Context, tx *gorm.DB, asset *models.Asset, device *models.Device) error {
	if device == nil {
		if asset.DeviceInfo == nil || asset.DeviceInfo.DeviceID == nil {
			return nil
		}
		device = &models.Device{}
		if res := tx.WithContext(ctx).First(device, "id = ?", *asset.DeviceInfo.DeviceID); res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return res.Error
		}
	}
	device.Service = asset.Service
	device.DeviceEnvironment = asset.DeviceEnvironment
	return tx.WithContext(ctx).Save(device).Error
}

// SyncDeviceToAsset projects the synchronized fields from a device onto the
// asset linked to it, if any. Called whenever the device side is saved
// directly.
func (s *Synchronizer) SyncDeviceToAsset(ctx context.Context, tx *gorm.DB, device *models.Device) error {
	db := tx.WithContext(ctx)
	var info models.DeviceInfo
	res := db.First(&info, "ralph_device_id = ?", device.ID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		return res.Error
	}
	return db.Model(&models.Asset{}).
		Where("id = ?", info.AssetID).
		Updates(map[string]interface{}{
			"service":            device.Service,
			"device_environment": device.DeviceEnvironment,
		}).Error
}

// ClearDeviceLinks nulls the link of any DeviceInfo referencing the device.
// Used when a device is deleted or soft-deleted.
func (s *Synchronizer) ClearDeviceLinks(ctx context.Context, tx *gorm.DB, deviceID uuid.UUID) error {
	return tx.WithContext(ctx).Model(&models.DeviceInfo{}).
		Where("ralph_device_id = ?", deviceID).
		Update("ralph_device_id", nil).Error
}
