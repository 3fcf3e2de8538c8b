package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/assetd-io/assetd/internal/models"
)

// GetRalphAsset resolves an asset for the hosting inventory platform
// @Summary      Get Asset Details
// @Description  Resolves an asset either by the core device linked to it
// @Description  (device_id) or by serial number or barcode (identity), and
// @Description  returns a flattened view with model, placement and support
// @Description  data folded in.
// @Id           GetRalphAsset
// @Tags         Ralph
// @Accept       json
// @Produce      json
// @Param        device_id  query  string  false "Linked device ID"
// @Param        identity   query  string  false "Serial number or barcode"
// @Success      200  {object}  models.AssetDetails
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/ralph/assets [get]
func (api *API) GetRalphAsset(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetRalphAsset")
	defer span.End()

	deviceID := c.Query("device_id")
	identity := c.Query("identity")
	if (deviceID == "") == (identity == "") {
		c.JSON(http.StatusBadRequest,
			models.NewFieldValidationError("device_id", "exactly one of device_id and identity is required"))
		return
	}

	db := api.db.WithContext(ctx)
	var asset models.Asset
	if deviceID != "" {
		id, err := uuid.Parse(deviceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("device_id"))
			return
		}
		span.SetAttributes(attribute.String("device_id", deviceID))
		var info models.DeviceInfo
		res := db.First(&info, "ralph_device_id = ?", id)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewNotFoundError("asset"))
			return
		} else if res.Error != nil {
			api.sendInternalServerError(c, res.Error)
			return
		}
		res = api.preloadDetails(db).First(&asset, "id = ?", info.AssetID)
		if res.Error != nil {
			api.sendInternalServerError(c, res.Error)
			return
		}
	} else {
		span.SetAttributes(attribute.String("identity", identity))
		res := api.preloadDetails(db).First(&asset, "sn = ? OR barcode = ?", identity, identity)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.NewNotFoundError("asset"))
			return
		} else if res.Error != nil {
			api.sendInternalServerError(c, res.Error)
			return
		}
	}

	c.JSON(http.StatusOK, assetDetails(&asset))
}

// GetRalphAssetAssigned answers whether an asset is linked to any device
// @Summary      Is Asset Assigned
// @Description  Reports whether the asset is linked to a core device. An
// @Description  exclude device ID makes a link to that one device not count,
// @Description  so a caller can test "assigned to anything else".
// @Id           GetRalphAssetAssigned
// @Tags         Ralph
// @Accept       json
// @Produce      json
// @Param        id       path   string  true  "Asset ID"
// @Param        exclude  query  string  false "Device ID whose link does not count"
// @Success      200  {object}  models.AssignedResult
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/ralph/assets/{id}/assigned [get]
func (api *API) GetRalphAssetAssigned(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetRalphAssetAssigned", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var exclude *uuid.UUID
	if raw := c.Query("exclude"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("exclude"))
			return
		}
		exclude = &parsed
	}

	db := api.db.WithContext(ctx)
	var asset models.Asset
	res := db.Preload("DeviceInfo").First(&asset, "id = ?", id)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("asset"))
		return
	} else if res.Error != nil {
		api.sendInternalServerError(c, res.Error)
		return
	}

	assigned := asset.DeviceInfo != nil && asset.DeviceInfo.DeviceID != nil
	if assigned && exclude != nil && *asset.DeviceInfo.DeviceID == *exclude {
		assigned = false
	}
	c.JSON(http.StatusOK, models.AssignedResult{AssetID: asset.ID, Assigned: assigned})
}

// AssignRalphAsset links or frees a device
// @Summary      Assign Asset
// @Description  Links the given asset to the given device, detaching whatever
// @Description  asset held the device before. With no asset ID the device is
// @Description  just freed. The outcome names which of the three happened.
// @Id           AssignRalphAsset
// @Tags         Ralph
// @Accept       json
// @Produce      json
// @Param        assign  body   models.AssignAsset  true "Assign Asset"
// @Success      200  {object}  models.AssignResult
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/ralph/assign [post]
func (api *API) AssignRalphAsset(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "AssignRalphAsset")
	defer span.End()

	var request models.AssignAsset
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.DeviceID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("device_id"))
		return
	}
	span.SetAttributes(attribute.String("device_id", request.DeviceID.String()))

	var outcome models.AssignResult
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		var device models.Device
		if res := tx.First(&device, "id = ? AND deleted = ?", request.DeviceID, false); res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("device"))
			}
			return res.Error
		}

		var holder models.DeviceInfo
		held := true
		res := tx.First(&holder, "ralph_device_id = ?", device.ID)
		if res.Error != nil {
			if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return res.Error
			}
			held = false
		}

		if request.AssetID == nil {
			if held {
				holder.DeviceID = nil
				if res := tx.Save(&holder); res.Error != nil {
					return res.Error
				}
			}
			outcome = models.AssignResult{Outcome: models.AssignUnassigned, DeviceID: device.ID}
			return nil
		}

		var asset models.Asset
		if res := tx.Preload("DeviceInfo").First(&asset, "id = ?", *request.AssetID); res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset"))
			}
			return res.Error
		}
		if asset.Kind != models.AssetKindDataCenter {
			return NewApiResponseError(http.StatusBadRequest,
				models.NewFieldValidationError("asset_id", "only data-center assets may be linked to devices"))
		}

		result := models.AssignResult{
			Outcome:  models.AssignLinked,
			DeviceID: device.ID,
			AssetID:  request.AssetID,
		}
		if held && holder.AssetID != asset.ID {
			holder.DeviceID = nil
			if res := tx.Save(&holder); res.Error != nil {
				return res.Error
			}
			result.Outcome = models.AssignRelinked
			api.logger.Infof("device [ %s ] relinked from asset [ %s ] to asset [ %s ]",
				device.ID, holder.AssetID, asset.ID)
		}

		info := asset.DeviceInfo
		if info == nil {
			info = &models.DeviceInfo{AssetID: asset.ID, Orientation: models.OrientationFront, Position: 1}
		}
		info.DeviceID = &device.ID
		if res := tx.Save(info); res.Error != nil {
			return res.Error
		}
		outcome = result
		return nil
	})
	if err != nil {
		var apiResponseError *ApiResponseError
		if errors.As(err, &apiResponseError) {
			c.JSON(apiResponseError.Status, apiResponseError.Body)
			return
		}
		api.sendInternalServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (api *API) preloadDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Model.Category").
		Preload("Warehouse").
		Preload("DeviceInfo.Rack").
		Preload("Supports")
}

// assetDetails flattens a fully preloaded asset into the external view.
func assetDetails(asset *models.Asset) models.AssetDetails {
	details := models.AssetDetails{
		AssetID:           asset.ID,
		Kind:              asset.Kind,
		Status:            asset.Status,
		SerialNumber:      asset.SerialNumber,
		Barcode:           asset.Barcode,
		Hostname:          asset.Hostname,
		OrderNumber:       asset.OrderNumber,
		InvoiceNumber:     asset.InvoiceNumber,
		InventoryNumber:   asset.InventoryNumber,
		Price:             asset.Price,
		Provider:          asset.Provider,
		Remarks:           asset.Remarks,
		Service:           asset.Service,
		DeviceEnvironment: asset.DeviceEnvironment,
		RequiredSupport:   asset.RequiredSupport,
		Supports:          make([]models.SupportSummary, 0, len(asset.Supports)),
	}
	if asset.Model != nil {
		details.Model = asset.Model.Name
		details.Manufacturer = asset.Model.Manufacturer
		if asset.Model.Category != nil {
			details.Category = asset.Model.Category.Name
		}
	}
	if asset.Warehouse != nil {
		details.Warehouse = asset.Warehouse.Name
	}
	if asset.DeviceInfo != nil {
		details.DeviceID = asset.DeviceInfo.DeviceID
		details.Position = asset.DeviceInfo.Position
		details.UHeight = asset.DeviceInfo.UHeight
		if asset.DeviceInfo.Rack != nil {
			details.Rack = asset.DeviceInfo.Rack.Name
		}
	}
	for _, support := range asset.Supports {
		details.Supports = append(details.Supports, models.SupportSummary{
			Name: support.Name,
			URL:  support.URL,
		})
	}
	return details
}
