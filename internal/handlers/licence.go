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

// ListLicences lists all licences
// @Summary      List Licences
// @Description  Lists all licences
// @Id           ListLicences
// @Tags         Licences
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.Licence
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/licences [get]
func (api *API) ListLicences(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListLicences")
	defer span.End()
	licences := make([]*models.Licence, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.Licence{}, c, "software_name")).
		Find(&licences)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, licences)
}

// GetLicence gets a licence by ID
// @Summary      Get Licence
// @Description  Gets a licence by ID
// @Id           GetLicence
// @Tags         Licences
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Licence ID"
// @Success      200  {object}  models.Licence
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/licences/{id} [get]
func (api *API) GetLicence(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetLicence", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var licence models.Licence
	result := api.db.WithContext(ctx).First(&licence, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("licence"))
		return
	} else if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, licence)
}

// CreateLicence creates a licence
// @Summary      Create Licence
// @Description  Creates a new licence
// @Id           CreateLicence
// @Tags         Licences
// @Accept       json
// @Produce      json
// @Param        licence  body   models.AddLicence  true "Add Licence"
// @Success      201  {object}  models.Licence
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/licences [post]
func (api *API) CreateLicence(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateLicence")
	defer span.End()
	var request models.AddLicence
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.SoftwareName == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("software_name"))
		return
	}
	if request.NumberBought < 1 {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("number_bought", "must be at least 1"))
		return
	}

	var licence models.Licence
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		if request.AssetID != nil {
			var asset models.Asset
			if res := tx.First(&asset, "id = ?", *request.AssetID); res.Error != nil {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset"))
			}
		}
		licence = models.Licence{
			SoftwareName:    request.SoftwareName,
			NumberBought:    request.NumberBought,
			NiW:             request.NiW,
			InvoiceNumber:   request.InvoiceNumber,
			Price:           request.Price,
			ValidThru:       request.ValidThru,
			AssetID:         request.AssetID,
			LicenceTypeName: request.LicenceTypeName,
		}
		return tx.Create(&licence).Error
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
	c.JSON(http.StatusCreated, licence)
}

// UpdateLicence updates a licence
// @Summary      Update Licence
// @Description  Updates a licence by ID
// @Id           UpdateLicence
// @Tags         Licences
// @Accept       json
// @Produce      json
// @Param        id      path   string                true "Licence ID"
// @Param        update  body   models.UpdateLicence  true "Licence Update"
// @Success      200  {object}  models.Licence
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/licences/{id} [patch]
func (api *API) UpdateLicence(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateLicence", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var request models.UpdateLicence
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	var licence models.Licence
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&licence, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("licence"))
			}
			return res.Error
		}
		if request.SoftwareName != nil {
			licence.SoftwareName = *request.SoftwareName
		}
		if request.NumberBought != nil {
			if *request.NumberBought < 1 {
				return NewApiResponseError(http.StatusBadRequest,
					models.NewFieldValidationError("number_bought", "must be at least 1"))
			}
			licence.NumberBought = *request.NumberBought
		}
		if request.NiW != nil {
			licence.NiW = *request.NiW
		}
		if request.InvoiceNumber != nil {
			licence.InvoiceNumber = *request.InvoiceNumber
		}
		if request.Price != nil {
			licence.Price = *request.Price
		}
		if request.ValidThru != nil {
			licence.ValidThru = request.ValidThru
		}
		if request.AssetID != nil {
			var asset models.Asset
			if res := tx.First(&asset, "id = ?", *request.AssetID); res.Error != nil {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset"))
			}
			licence.AssetID = request.AssetID
		}
		if request.LicenceTypeName != nil {
			licence.LicenceTypeName = *request.LicenceTypeName
		}
		return tx.Save(&licence).Error
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
	c.JSON(http.StatusOK, licence)
}

// DeleteLicence deletes a licence
// @Summary      Delete Licence
// @Description  Deletes a licence by ID
// @Id           DeleteLicence
// @Tags         Licences
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Licence ID"
// @Success      200  {object}  models.Licence
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/licences/{id} [delete]
func (api *API) DeleteLicence(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteLicence", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var licence models.Licence
	result := api.db.WithContext(ctx).First(&licence, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("licence"))
		return
	} else if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	if res := api.db.WithContext(ctx).Delete(&licence); res.Error != nil {
		api.sendInternalServerError(c, res.Error)
		return
	}
	c.JSON(http.StatusOK, licence)
}
