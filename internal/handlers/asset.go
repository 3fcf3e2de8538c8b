package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/assetd-io/assetd/internal/database"
	"github.com/assetd-io/assetd/internal/linkage"
	"github.com/assetd-io/assetd/internal/models"
)

type errDuplicateAsset struct {
	ID string
}

func (e errDuplicateAsset) Error() string {
	return "asset already exists"
}

// ListAssets lists all assets
// @Summary      List Assets
// @Description  Lists all assets
// @Id           ListAssets
// @Tags         Assets
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.Asset
// @Failure		 401  {object}  models.BaseError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/assets [get]
func (api *API) ListAssets(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListAssets")
	defer span.End()
	assets := make([]*models.Asset, 0)
	result := api.db.WithContext(ctx).
		Preload("DeviceInfo").
		Scopes(FilterAndPaginate(&models.Asset{}, c, "created_at")).
		Find(&assets)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, assets)
}

// GetAsset gets an asset by ID
// @Summary      Get Asset
// @Description  Gets an asset by ID
// @Id           GetAsset
// @Tags         Assets
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Asset ID"
// @Success      200  {object}  models.Asset
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/assets/{id} [get]
func (api *API) GetAsset(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetAsset", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var asset models.Asset
	result := api.db.WithContext(ctx).Preload("DeviceInfo").First(&asset, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("asset"))
		return
	} else if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// CreateAsset creates a new asset
// @Summary      Create Asset
// @Description  Creates a new asset. Data-center assets get a DeviceInfo and
// @Description  are linked to a core device: an explicit device id or barcode
// @Description  match is used when present, otherwise a placeholder device is
// @Description  created.
// @Id           CreateAsset
// @Tags         Assets
// @Accept       json
// @Produce      json
// @Param        asset  body   models.AddAsset  true "Add Asset"
// @Success      201  {object}  models.Asset
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/assets [post]
func (api *API) CreateAsset(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateAsset")
	defer span.End()

	var request models.AddAsset
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if !request.Kind.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("kind", "must be data_center or back_office"))
		return
	}
	if request.Status == "" {
		request.Status = models.StatusNew
	}
	if !request.Status.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("status", "unknown status"))
		return
	}
	if request.ModelID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("model_id"))
		return
	}
	if request.WarehouseID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("warehouse_id"))
		return
	}
	if request.DeviceInfo != nil && request.Kind != models.AssetKindDataCenter {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("device_info", "placement applies to data-center assets only"))
		return
	}

	var asset models.Asset
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		var model models.AssetModel
		if res := tx.Preload("Category").First(&model, "id = ?", request.ModelID); res.Error != nil {
			return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset model"))
		}
		var warehouse models.Warehouse
		if res := tx.First(&warehouse, "id = ?", request.WarehouseID); res.Error != nil {
			return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("warehouse"))
		}

		asset = models.Asset{
			Kind:              request.Kind,
			Status:            request.Status,
			SerialNumber:      request.SerialNumber,
			Barcode:           request.Barcode,
			OrderNumber:       request.OrderNumber,
			InvoiceNumber:     request.InvoiceNumber,
			InventoryNumber:   request.InventoryNumber,
			Price:             request.Price,
			Provider:          request.Provider,
			Remarks:           request.Remarks,
			OwnerCountry:      request.OwnerCountry,
			Service:           request.Service,
			DeviceEnvironment: request.DeviceEnvironment,
			RequiredSupport:   request.RequiredSupport,
			ModelID:           model.ID,
			WarehouseID:       warehouse.ID,
			Model:             &model,
			Warehouse:         &warehouse,
		}
		if res := tx.Omit("Model", "Warehouse").Create(&asset); res.Error != nil {
			if database.IsDuplicateError(res.Error) {
				return errDuplicateAsset{ID: asset.ID.String()}
			}
			return res.Error
		}

		if asset.Kind == models.AssetKindDataCenter {
			info, err := api.buildDeviceInfo(tx, asset.ID, request.DeviceInfo)
			if err != nil {
				return err
			}
			asset.DeviceInfo = info

			link := models.LinkRequest{}
			if request.Linkage != nil {
				link = *request.Linkage
			}
			if err := api.applyLinkage(c, tx, &asset, link); err != nil {
				return err
			}
		}

		if len(request.SupportIDs) > 0 {
			if err := api.replaceSupports(tx, &asset, request.SupportIDs); err != nil {
				return err
			}
		}

		return api.maybeAssignHostname(ctx, tx, &asset)
	})

	if err != nil {
		api.replyAssetError(c, err)
		return
	}

	span.SetAttributes(attribute.String("id", asset.ID.String()))
	api.logger.Infof("new asset [ %s ] created", asset.ID)
	c.JSON(http.StatusCreated, asset)
}

// UpdateAsset updates an asset
// @Summary      Update Asset
// @Description  Updates an asset by ID. A status transition into in_progress
// @Description  triggers hostname assignment when the auto-hostname feature
// @Description  flag is enabled and the asset has none yet.
// @Id           UpdateAsset
// @Tags         Assets
// @Accept       json
// @Produce      json
// @Param        id     path   string              true "Asset ID"
// @Param        update body   models.UpdateAsset  true "Asset Update"
// @Success      200  {object}  models.Asset
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/assets/{id} [patch]
func (api *API) UpdateAsset(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateAsset", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var request models.UpdateAsset
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.Status != nil && !request.Status.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("status", "unknown status"))
		return
	}

	var asset models.Asset
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Preload("DeviceInfo").Preload("Model.Category").Preload("Warehouse").
			First(&asset, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset"))
			}
			return res.Error
		}

		applyAssetUpdate(&asset, &request)
		if request.ModelID != nil {
			var model models.AssetModel
			if res := tx.Preload("Category").First(&model, "id = ?", *request.ModelID); res.Error != nil {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset model"))
			}
			asset.ModelID = model.ID
			asset.Model = &model
		}
		if request.WarehouseID != nil {
			var warehouse models.Warehouse
			if res := tx.First(&warehouse, "id = ?", *request.WarehouseID); res.Error != nil {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("warehouse"))
			}
			asset.WarehouseID = warehouse.ID
			asset.Warehouse = &warehouse
		}

		if res := tx.Omit("Model", "Warehouse", "DeviceInfo").Save(&asset); res.Error != nil {
			if database.IsDuplicateError(res.Error) {
				return errDuplicateAsset{ID: asset.ID.String()}
			}
			return res.Error
		}

		if asset.Kind == models.AssetKindDataCenter {
			if request.DeviceInfo != nil {
				info, err := api.buildDeviceInfo(tx, asset.ID, request.DeviceInfo)
				if err != nil {
					return err
				}
				asset.DeviceInfo = info
			}
			if request.Linkage != nil {
				if err := api.applyLinkage(c, tx, &asset, *request.Linkage); err != nil {
					return err
				}
			} else if err := api.linkage.SyncAssetToDevice(ctx, tx, &asset, nil); err != nil {
				return err
			}
		}

		if request.SupportIDs != nil {
			if err := api.replaceSupports(tx, &asset, *request.SupportIDs); err != nil {
				return err
			}
		}

		return api.maybeAssignHostname(ctx, tx, &asset)
	})

	if err != nil {
		api.replyAssetError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

// DeleteAsset deletes an asset
// @Summary      Delete Asset
// @Description  Deletes an asset by ID. Refused while parts are still
// @Description  attached to it.
// @Id           DeleteAsset
// @Tags         Assets
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Asset ID"
// @Success      200  {object}  models.Asset
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.NotAllowedError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/assets/{id} [delete]
func (api *API) DeleteAsset(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteAsset", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}

	var asset models.Asset
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Preload("DeviceInfo").First(&asset, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset"))
			}
			return res.Error
		}

		var partCount int64
		if res := tx.Model(&models.Part{}).Where("asset_id = ?", asset.ID).Count(&partCount); res.Error != nil {
			return res.Error
		}
		if partCount > 0 {
			return NewApiResponseError(http.StatusConflict,
				models.NewNotAllowedError("asset still has parts attached, detach them first"))
		}

		if asset.DeviceInfo != nil {
			if res := tx.Delete(asset.DeviceInfo); res.Error != nil {
				return res.Error
			}
		}
		return tx.Delete(&asset).Error
	})

	if err != nil {
		api.replyAssetError(c, err)
		return
	}

	api.logger.Infof("asset [ %s ] deleted", asset.ID)
	c.JSON(http.StatusOK, asset)
}

func applyAssetUpdate(asset *models.Asset, request *models.UpdateAsset) {
	if request.Status != nil {
		asset.Status = *request.Status
	}
	if request.SerialNumber != nil {
		asset.SerialNumber = request.SerialNumber
	}
	if request.Barcode != nil {
		asset.Barcode = request.Barcode
	}
	if request.OrderNumber != nil {
		asset.OrderNumber = *request.OrderNumber
	}
	if request.InvoiceNumber != nil {
		asset.InvoiceNumber = *request.InvoiceNumber
	}
	if request.InventoryNumber != nil {
		asset.InventoryNumber = *request.InventoryNumber
	}
	if request.Price != nil {
		asset.Price = *request.Price
	}
	if request.Provider != nil {
		asset.Provider = *request.Provider
	}
	if request.Remarks != nil {
		asset.Remarks = *request.Remarks
	}
	if request.OwnerCountry != nil {
		asset.OwnerCountry = *request.OwnerCountry
	}
	if request.Service != nil {
		asset.Service = *request.Service
	}
	if request.DeviceEnvironment != nil {
		asset.DeviceEnvironment = *request.DeviceEnvironment
	}
	if request.RequiredSupport != nil {
		asset.RequiredSupport = *request.RequiredSupport
	}
}

// buildDeviceInfo validates the placement and creates or updates the asset's
// DeviceInfo row.
func (api *API) buildDeviceInfo(tx *gorm.DB, assetID uuid.UUID, placement *models.AddDeviceInfo) (*models.DeviceInfo, error) {
	if placement == nil {
		placement = &models.AddDeviceInfo{Orientation: models.OrientationFront, Position: 1}
	}

	var rack *models.Rack
	if placement.RackID != nil {
		rack = &models.Rack{}
		if res := tx.First(rack, "id = ?", *placement.RackID); res.Error != nil {
			return nil, NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("rack"))
		}
	}
	if err := placement.Validate(rack); err != nil {
		return nil, NewApiResponseError(http.StatusBadRequest,
			models.NewFieldValidationError("device_info", err.Error()))
	}

	var info models.DeviceInfo
	res := tx.First(&info, "asset_id = ?", assetID)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, res.Error
	}
	info.AssetID = assetID
	info.RackID = placement.RackID
	info.Position = placement.Position
	info.SlotNumber = placement.SlotNumber
	info.Orientation = placement.Orientation
	info.UHeight = placement.UHeight
	if res := tx.Omit("Rack").Save(&info); res.Error != nil {
		return nil, res.Error
	}
	return &info, nil
}

// replaceSupports swaps the asset's support contracts for the given set. An
// empty set clears the association.
func (api *API) replaceSupports(tx *gorm.DB, asset *models.Asset, ids []uuid.UUID) error {
	supports := make([]*models.Support, 0, len(ids))
	for _, sid := range ids {
		var support models.Support
		if res := tx.First(&support, "id = ?", sid); res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("support"))
			}
			return res.Error
		}
		supports = append(supports, &support)
	}
	if err := tx.Model(asset).Omit("Supports.*").Association("Supports").Replace(supports); err != nil {
		return err
	}
	asset.Supports = supports
	return nil
}

func (api *API) applyLinkage(c *gin.Context, tx *gorm.DB, asset *models.Asset, link models.LinkRequest) error {
	if link.ForceUnlink {
		enabled, err := api.fflags.GetFlag("force-unlink")
		if err != nil {
			return err
		}
		if !enabled {
			return NewApiResponseError(http.StatusMethodNotAllowed,
				models.NewNotAllowedError("force unlink support is disabled"))
		}
	}
	return api.linkage.Apply(c.Request.Context(), tx, asset, link)
}

// maybeAssignHostname assigns a hostname when the asset just moved to
// in_progress, has none, and the auto-hostname feature flag is on.
func (api *API) maybeAssignHostname(ctx context.Context, tx *gorm.DB, asset *models.Asset) error {
	if asset.Status != models.StatusInProgress {
		return nil
	}
	if asset.Hostname != nil && *asset.Hostname != "" {
		return nil
	}
	enabled, err := api.fflags.GetFlag("auto-hostname")
	if err != nil || !enabled {
		return err
	}

	if asset.Model == nil || asset.Model.Category == nil {
		var model models.AssetModel
		if res := tx.Preload("Category").First(&model, "id = ?", asset.ModelID); res.Error == nil {
			asset.Model = &model
		}
	}

	hostname, err := api.hostnames.NextForAsset(ctx, tx, asset)
	if err != nil {
		return NewApiResponseError(http.StatusBadRequest,
			models.NewFieldValidationError("hostname", err.Error()))
	}
	asset.Hostname = &hostname
	return tx.Model(&models.Asset{}).Where("id = ?", asset.ID).
		Update("hostname", hostname).Error
}

func (api *API) replyAssetError(c *gin.Context, err error) {
	var duplicate errDuplicateAsset
	var apiResponseError *ApiResponseError
	switch {
	case errors.As(err, &apiResponseError):
		c.JSON(apiResponseError.Status, apiResponseError.Body)
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, models.NewConflictsError(duplicate.ID))
	case errors.Is(err, linkage.ErrDeviceLinked):
		c.JSON(http.StatusConflict, models.NewFieldValidationError("linkage", err.Error()))
	case errors.Is(err, linkage.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, models.NewNotFoundError("device"))
	default:
		api.sendInternalServerError(c, err)
	}
}
