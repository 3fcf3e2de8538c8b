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

// ListSupports lists all support contracts
// @Summary      List Supports
// @Description  Lists all support contracts
// @Id           ListSupports
// @Tags         Supports
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.Support
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/supports [get]
func (api *API) ListSupports(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListSupports")
	defer span.End()
	supports := make([]*models.Support, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.Support{}, c, "name")).
		Find(&supports)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, supports)
}

// GetSupport gets a support contract by ID
// @Summary      Get Support
// @Description  Gets a support contract by ID
// @Id           GetSupport
// @Tags         Supports
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Support ID"
// @Success      200  {object}  models.Support
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/supports/{id} [get]
func (api *API) GetSupport(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetSupport", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var support models.Support
	result := api.db.WithContext(ctx).First(&support, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("support"))
		return
	} else if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, support)
}

// CreateSupport creates a support contract
// @Summary      Create Support
// @Description  Creates a new support contract
// @Id           CreateSupport
// @Tags         Supports
// @Accept       json
// @Produce      json
// @Param        support  body   models.AddSupport  true "Add Support"
// @Success      201  {object}  models.Support
// @Failure      400  {object}  models.ValidationError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/supports [post]
func (api *API) CreateSupport(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateSupport")
	defer span.End()
	var request models.AddSupport
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}
	support := models.Support{
		Name:       request.Name,
		ContractID: request.ContractID,
		URL:        request.URL,
		Price:      request.Price,
		DateFrom:   request.DateFrom,
		DateTo:     request.DateTo,
	}
	if res := api.db.WithContext(ctx).Create(&support); res.Error != nil {
		api.sendInternalServerError(c, res.Error)
		return
	}
	c.JSON(http.StatusCreated, support)
}

// UpdateSupport updates a support contract
// @Summary      Update Support
// @Description  Updates a support contract by ID
// @Id           UpdateSupport
// @Tags         Supports
// @Accept       json
// @Produce      json
// @Param        id      path   string                true "Support ID"
// @Param        update  body   models.UpdateSupport  true "Support Update"
// @Success      200  {object}  models.Support
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/supports/{id} [patch]
func (api *API) UpdateSupport(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateSupport", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var request models.UpdateSupport
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	var support models.Support
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&support, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("support"))
			}
			return res.Error
		}
		if request.Name != nil {
			support.Name = *request.Name
		}
		if request.ContractID != nil {
			support.ContractID = *request.ContractID
		}
		if request.URL != nil {
			support.URL = *request.URL
		}
		if request.Price != nil {
			support.Price = *request.Price
		}
		if request.DateFrom != nil {
			support.DateFrom = request.DateFrom
		}
		if request.DateTo != nil {
			support.DateTo = request.DateTo
		}
		return tx.Save(&support).Error
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
	c.JSON(http.StatusOK, support)
}

// DeleteSupport deletes a support contract
// @Summary      Delete Support
// @Description  Deletes a support contract by ID and detaches it from any
// @Description  assets referencing it
// @Id           DeleteSupport
// @Tags         Supports
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Support ID"
// @Success      200  {object}  models.Support
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/supports/{id} [delete]
func (api *API) DeleteSupport(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteSupport", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var support models.Support
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&support, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("support"))
			}
			return res.Error
		}
		if err := tx.Model(&support).Association("Assets").Clear(); err != nil {
			return err
		}
		return tx.Delete(&support).Error
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
	c.JSON(http.StatusOK, support)
}
