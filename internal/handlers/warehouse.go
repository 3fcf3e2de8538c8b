package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/assetd-io/assetd/internal/database"
	"github.com/assetd-io/assetd/internal/models"
)

// ListWarehouses lists all warehouses
// @Summary      List Warehouses
// @Description  Lists all warehouses
// @Id           ListWarehouses
// @Tags         Warehouses
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.Warehouse
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/warehouses [get]
func (api *API) ListWarehouses(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListWarehouses")
	defer span.End()
	warehouses := make([]*models.Warehouse, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.Warehouse{}, c, "name")).
		Find(&warehouses)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, warehouses)
}

// GetWarehouse gets a warehouse by ID
// @Summary      Get Warehouse
// @Description  Gets a warehouse by ID
// @Id           GetWarehouse
// @Tags         Warehouses
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Warehouse ID"
// @Success      200  {object}  models.Warehouse
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/warehouses/{id} [get]
func (api *API) GetWarehouse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetWarehouse", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var warehouse models.Warehouse
	result := api.db.WithContext(ctx).First(&warehouse, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("warehouse"))
		return
	} else if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, warehouse)
}

// CreateWarehouse creates a warehouse
// @Summary      Create Warehouse
// @Description  Creates a new warehouse
// @Id           CreateWarehouse
// @Tags         Warehouses
// @Accept       json
// @Produce      json
// @Param        warehouse  body   models.AddWarehouse  true "Add Warehouse"
// @Success      201  {object}  models.Warehouse
// @Failure      400  {object}  models.ValidationError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/warehouses [post]
func (api *API) CreateWarehouse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateWarehouse")
	defer span.End()
	var request models.AddWarehouse
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}
	warehouse := models.Warehouse{Name: request.Name}
	if res := api.db.WithContext(ctx).Create(&warehouse); res.Error != nil {
		if database.IsDuplicateError(res.Error) {
			c.JSON(http.StatusConflict, models.NewConflictsError(warehouse.ID.String()))
			return
		}
		api.sendInternalServerError(c, res.Error)
		return
	}
	c.JSON(http.StatusCreated, warehouse)
}

// UpdateWarehouse updates a warehouse
// @Summary      Update Warehouse
// @Description  Updates a warehouse by ID
// @Id           UpdateWarehouse
// @Tags         Warehouses
// @Accept       json
// @Produce      json
// @Param        id      path   string                  true "Warehouse ID"
// @Param        update  body   models.UpdateWarehouse  true "Warehouse Update"
// @Success      200  {object}  models.Warehouse
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/warehouses/{id} [patch]
func (api *API) UpdateWarehouse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateWarehouse", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var request models.UpdateWarehouse
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	var warehouse models.Warehouse
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&warehouse, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("warehouse"))
			}
			return res.Error
		}
		if request.Name != nil {
			warehouse.Name = *request.Name
		}
		if res := tx.Save(&warehouse); res.Error != nil {
			if database.IsDuplicateError(res.Error) {
				return NewApiResponseError(http.StatusConflict, models.NewConflictsError(warehouse.ID.String()))
			}
			return res.Error
		}
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
	c.JSON(http.StatusOK, warehouse)
}

// DeleteWarehouse deletes a warehouse
// @Summary      Delete Warehouse
// @Description  Deletes a warehouse by ID. Refused while assets or parts still
// @Description  reference it.
// @Id           DeleteWarehouse
// @Tags         Warehouses
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Warehouse ID"
// @Success      200  {object}  models.Warehouse
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.NotAllowedError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/warehouses/{id} [delete]
func (api *API) DeleteWarehouse(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteWarehouse", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var warehouse models.Warehouse
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&warehouse, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("warehouse"))
			}
			return res.Error
		}
		var assetCount, partCount int64
		if res := tx.Model(&models.Asset{}).Where("warehouse_id = ?", warehouse.ID).Count(&assetCount); res.Error != nil {
			return res.Error
		}
		if res := tx.Model(&models.Part{}).Where("warehouse_id = ?", warehouse.ID).Count(&partCount); res.Error != nil {
			return res.Error
		}
		if assetCount+partCount > 0 {
			return NewApiResponseError(http.StatusConflict,
				models.NewNotAllowedError("warehouse is still referenced by assets or parts"))
		}
		return tx.Delete(&warehouse).Error
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
	c.JSON(http.StatusOK, warehouse)
}

// ListRacks lists all racks
// @Summary      List Racks
// @Description  Lists all racks
// @Id           ListRacks
// @Tags         Racks
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.Rack
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/racks [get]
func (api *API) ListRacks(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListRacks")
	defer span.End()
	racks := make([]*models.Rack, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.Rack{}, c, "name")).
		Find(&racks)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, racks)
}

// CreateRack creates a rack
// @Summary      Create Rack
// @Description  Creates a new rack
// @Id           CreateRack
// @Tags         Racks
// @Accept       json
// @Produce      json
// @Param        rack  body   models.AddRack  true "Add Rack"
// @Success      201  {object}  models.Rack
// @Failure      400  {object}  models.ValidationError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/racks [post]
func (api *API) CreateRack(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateRack")
	defer span.End()
	var request models.AddRack
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}
	rack := models.Rack{
		Name:       request.Name,
		DataCenter: request.DataCenter,
		MaxUHeight: request.MaxUHeight,
	}
	if res := api.db.WithContext(ctx).Create(&rack); res.Error != nil {
		api.sendInternalServerError(c, res.Error)
		return
	}
	c.JSON(http.StatusCreated, rack)
}
