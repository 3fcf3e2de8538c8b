package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/assetd-io/assetd/internal/database"
	"github.com/assetd-io/assetd/internal/models"
)

type errDuplicatePart struct {
	ID string
}

func (e errDuplicatePart) Error() string {
	return "part already exists"
}

// ListParts lists all parts
// @Summary      List Parts
// @Description  Lists all parts
// @Id           ListParts
// @Tags         Parts
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.Part
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/parts [get]
func (api *API) ListParts(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListParts")
	defer span.End()
	parts := make([]*models.Part, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.Part{}, c, "created_at")).
		Find(&parts)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, parts)
}

// GetPart gets a part by ID
// @Summary      Get Part
// @Description  Gets a part by ID
// @Id           GetPart
// @Tags         Parts
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Part ID"
// @Success      200  {object}  models.Part
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/parts/{id} [get]
func (api *API) GetPart(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetPart", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var part models.Part
	result := api.db.WithContext(ctx).First(&part, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("part"))
		return
	} else if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, part)
}

// CreateParts creates parts in bulk
// @Summary      Create Parts
// @Description  Creates one part per serial number in the request, all sharing
// @Description  the remaining fields
// @Id           CreateParts
// @Tags         Parts
// @Accept       json
// @Produce      json
// @Param        parts  body   models.AddParts  true "Add Parts"
// @Success      201  {object}  []models.Part
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/parts [post]
func (api *API) CreateParts(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateParts")
	defer span.End()

	var request models.AddParts
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if len(request.SerialNumbers) == 0 {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("sns"))
		return
	}
	seen := make(map[string]struct{}, len(request.SerialNumbers))
	for _, sn := range request.SerialNumbers {
		if sn == "" {
			c.JSON(http.StatusBadRequest, models.NewFieldValidationError("sns", "serial numbers may not be empty"))
			return
		}
		if _, ok := seen[sn]; ok {
			c.JSON(http.StatusBadRequest, models.NewFieldValidationError("sns", fmt.Sprintf("duplicate serial number %s", sn)))
			return
		}
		seen[sn] = struct{}{}
	}
	if request.WarehouseID == uuid.Nil {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("warehouse_id"))
		return
	}

	parts := make([]*models.Part, 0, len(request.SerialNumbers))
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		var warehouse models.Warehouse
		if res := tx.First(&warehouse, "id = ?", request.WarehouseID); res.Error != nil {
			return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("warehouse"))
		}
		if request.AssetID != nil {
			var asset models.Asset
			if res := tx.First(&asset, "id = ?", *request.AssetID); res.Error != nil {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset"))
			}
		}
		if request.ModelID != nil {
			var model models.PartModel
			if res := tx.First(&model, "id = ?", *request.ModelID); res.Error != nil {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("part model"))
			}
		}

		parts = parts[:0]
		for _, sn := range request.SerialNumbers {
			part := &models.Part{
				SerialNumber:      sn,
				AssetID:           request.AssetID,
				ModelID:           request.ModelID,
				OrderNumber:       request.OrderNumber,
				Price:             request.Price,
				Service:           request.Service,
				DeviceEnvironment: request.DeviceEnvironment,
				WarehouseID:       request.WarehouseID,
			}
			if res := tx.Create(part); res.Error != nil {
				if database.IsDuplicateError(res.Error) {
					return errDuplicatePart{ID: sn}
				}
				return res.Error
			}
			parts = append(parts, part)
		}
		return nil
	})
	if err != nil {
		api.replyPartError(c, err)
		return
	}

	api.logger.Infof("created %d parts", len(parts))
	c.JSON(http.StatusCreated, parts)
}

// UpdatePart updates a part
// @Summary      Update Part
// @Description  Updates a part by ID
// @Id           UpdatePart
// @Tags         Parts
// @Accept       json
// @Produce      json
// @Param        id      path   string             true "Part ID"
// @Param        update  body   models.UpdatePart  true "Part Update"
// @Success      200  {object}  models.Part
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/parts/{id} [patch]
func (api *API) UpdatePart(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdatePart", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var request models.UpdatePart
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}

	var part models.Part
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&part, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("part"))
			}
			return res.Error
		}
		if request.SerialNumber != nil {
			part.SerialNumber = *request.SerialNumber
		}
		if request.ModelID != nil {
			part.ModelID = request.ModelID
		}
		if request.OrderNumber != nil {
			part.OrderNumber = *request.OrderNumber
		}
		if request.Price != nil {
			part.Price = *request.Price
		}
		if request.Service != nil {
			part.Service = *request.Service
		}
		if request.DeviceEnvironment != nil {
			part.DeviceEnvironment = *request.DeviceEnvironment
		}
		if request.WarehouseID != nil {
			part.WarehouseID = *request.WarehouseID
		}
		if res := tx.Save(&part); res.Error != nil {
			if database.IsDuplicateError(res.Error) {
				return errDuplicatePart{ID: part.SerialNumber}
			}
			return res.Error
		}
		return nil
	})
	if err != nil {
		api.replyPartError(c, err)
		return
	}

	c.JSON(http.StatusOK, part)
}

// DeletePart deletes a part
// @Summary      Delete Part
// @Description  Deletes a part by ID
// @Id           DeletePart
// @Tags         Parts
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Part ID"
// @Success      200  {object}  models.Part
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/parts/{id} [delete]
func (api *API) DeletePart(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeletePart", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var part models.Part
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&part, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("part"))
			}
			return res.Error
		}
		return tx.Delete(&part).Error
	})
	if err != nil {
		api.replyPartError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

// ExchangeAssetParts attaches and detaches parts on an asset
// @Summary      Exchange Asset Parts
// @Description  Attaches one set of parts to the asset and detaches another,
// @Description  by serial number, in a single transaction. Attached serials
// @Description  with no existing part get one created on the fly. Detached
// @Description  parts keep existing with no asset reference.
// @Id           ExchangeAssetParts
// @Tags         Parts
// @Accept       json
// @Produce      json
// @Param        id        path   string                true "Asset ID"
// @Param        exchange  body   models.ExchangeParts  true "Exchange Parts"
// @Success      200  {object}  models.ExchangeResult
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/assets/{id}/exchange-parts [post]
func (api *API) ExchangeAssetParts(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ExchangeAssetParts", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var request models.ExchangeParts
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if len(request.Attach) == 0 && len(request.Detach) == 0 {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("attach", "nothing to exchange"))
		return
	}
	attach := make(map[string]struct{}, len(request.Attach))
	for _, sn := range request.Attach {
		attach[sn] = struct{}{}
	}
	for _, sn := range request.Detach {
		if _, ok := attach[sn]; ok {
			c.JSON(http.StatusBadRequest, models.NewFieldValidationError("detach",
				fmt.Sprintf("serial number %s appears in both attach and detach", sn)))
			return
		}
	}

	var outcome models.ExchangeResult
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		var asset models.Asset
		if res := tx.First(&asset, "id = ?", id); res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset"))
			}
			return res.Error
		}

		outcome = models.ExchangeResult{
			Attached: make([]string, 0, len(request.Attach)),
			Detached: make([]string, 0, len(request.Detach)),
			Created:  make([]string, 0),
		}

		for _, sn := range request.Detach {
			var part models.Part
			res := tx.First(&part, "sn = ? AND asset_id = ?", sn, asset.ID)
			if res.Error != nil {
				if errors.Is(res.Error, gorm.ErrRecordNotFound) {
					return NewApiResponseError(http.StatusBadRequest,
						models.NewFieldValidationError("detach",
							fmt.Sprintf("part %s is not attached to this asset", sn)))
				}
				return res.Error
			}
			part.AssetID = nil
			if res := tx.Save(&part); res.Error != nil {
				return res.Error
			}
			outcome.Detached = append(outcome.Detached, sn)
		}

		for _, sn := range request.Attach {
			var part models.Part
			res := tx.First(&part, "sn = ?", sn)
			if res.Error != nil {
				if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
					return res.Error
				}
				part = models.Part{
					SerialNumber:      sn,
					AssetID:           &asset.ID,
					OrderNumber:       asset.OrderNumber,
					Service:           asset.Service,
					DeviceEnvironment: asset.DeviceEnvironment,
					WarehouseID:       asset.WarehouseID,
				}
				if res := tx.Create(&part); res.Error != nil {
					return res.Error
				}
				outcome.Created = append(outcome.Created, sn)
				outcome.Attached = append(outcome.Attached, sn)
				continue
			}
			if part.AssetID != nil && *part.AssetID != asset.ID {
				return NewApiResponseError(http.StatusConflict,
					models.NewNotAllowedError(
						fmt.Sprintf("part %s is attached to another asset", sn)))
			}
			part.AssetID = &asset.ID
			if res := tx.Save(&part); res.Error != nil {
				return res.Error
			}
			outcome.Attached = append(outcome.Attached, sn)
		}
		return nil
	})
	if err != nil {
		api.replyPartError(c, err)
		return
	}

	api.logger.Infof("asset [ %s ] exchanged parts: %d attached, %d detached, %d created",
		id, len(outcome.Attached), len(outcome.Detached), len(outcome.Created))
	c.JSON(http.StatusOK, outcome)
}

func (api *API) replyPartError(c *gin.Context, err error) {
	var duplicate errDuplicatePart
	var apiResponseError *ApiResponseError
	switch {
	case errors.As(err, &apiResponseError):
		c.JSON(apiResponseError.Status, apiResponseError.Body)
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, models.NewConflictsError(duplicate.ID))
	default:
		api.sendInternalServerError(c, err)
	}
}
