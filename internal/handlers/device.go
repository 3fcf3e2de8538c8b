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

type errDuplicateDevice struct {
	ID string
}

func (e errDuplicateDevice) Error() string {
	return "device already exists"
}

// ListDevices lists all devices
// @Summary      List Devices
// @Description  Lists all devices
// @Id           ListDevices
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.Device
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices [get]
func (api *API) ListDevices(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListDevices")
	defer span.End()
	devices := make([]*models.Device, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.Device{}, c, "created_at")).
		Find(&devices)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// GetDevice gets a device by ID
// @Summary      Get Device
// @Description  Gets a device by ID
// @Id           GetDevice
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Device ID"
// @Success      200  {object}  models.Device
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices/{id} [get]
func (api *API) GetDevice(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetDevice", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var device models.Device
	result := api.db.WithContext(ctx).First(&device, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("device"))
		return
	} else if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, device)
}

// CreateDevice creates a new device
// @Summary      Create Device
// @Description  Creates a new device
// @Id           CreateDevice
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        device  body   models.AddDevice  true "Add Device"
// @Success      201  {object}  models.Device
// @Failure      400  {object}  models.ValidationError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices [post]
func (api *API) CreateDevice(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateDevice")
	defer span.End()

	var request models.AddDevice
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}

	device := models.Device{
		Name:              request.Name,
		Barcode:           request.Barcode,
		DataCenter:        request.DataCenter,
		Remarks:           request.Remarks,
		Service:           request.Service,
		DeviceEnvironment: request.DeviceEnvironment,
		ManagementIP:      request.ManagementIP,
	}
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		if res := tx.Create(&device); res.Error != nil {
			if database.IsDuplicateError(res.Error) {
				return errDuplicateDevice{ID: device.ID.String()}
			}
			return res.Error
		}
		return nil
	})
	if err != nil {
		var duplicate errDuplicateDevice
		if errors.As(err, &duplicate) {
			c.JSON(http.StatusConflict, models.NewConflictsError(duplicate.ID))
			return
		}
		api.sendInternalServerError(c, err)
		return
	}

	span.SetAttributes(attribute.String("id", device.ID.String()))
	c.JSON(http.StatusCreated, device)
}

// UpdateDevice updates a device
// @Summary      Update Device
// @Description  Updates a device by ID. Saving the device projects the
// @Description  synchronized fields onto the asset linked to it; setting
// @Description  deleted drops the link instead.
// @Id           UpdateDevice
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        id      path   string               true "Device ID"
// @Param        update  body   models.UpdateDevice  true "Device Update"
// @Success      200  {object}  models.Device
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices/{id} [patch]
func (api *API) UpdateDevice(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateDevice", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var request models.UpdateDevice
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}

	var device models.Device
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&device, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("device"))
			}
			return res.Error
		}

		if request.Name != nil {
			device.Name = *request.Name
		}
		if request.Barcode != nil {
			device.Barcode = request.Barcode
		}
		if request.DataCenter != nil {
			device.DataCenter = *request.DataCenter
		}
		if request.Remarks != nil {
			device.Remarks = *request.Remarks
		}
		if request.Service != nil {
			device.Service = *request.Service
		}
		if request.DeviceEnvironment != nil {
			device.DeviceEnvironment = *request.DeviceEnvironment
		}
		if request.ManagementIP != nil {
			device.ManagementIP = *request.ManagementIP
		}
		if request.Deleted != nil {
			device.Deleted = *request.Deleted
		}

		if res := tx.Save(&device); res.Error != nil {
			if database.IsDuplicateError(res.Error) {
				return errDuplicateDevice{ID: device.ID.String()}
			}
			return res.Error
		}

		// Soft-deleting a device frees the asset holding it; a live save
		// pushes the synchronized fields to the asset side instead.
		if device.Deleted {
			return api.linkage.ClearDeviceLinks(ctx, tx, device.ID)
		}
		return api.linkage.SyncDeviceToAsset(ctx, tx, &device)
	})
	if err != nil {
		api.replyDeviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

// DeleteDevice deletes a device
// @Summary      Delete Device
// @Description  Deletes a device by ID and unlinks any asset referencing it
// @Id           DeleteDevice
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Device ID"
// @Success      200  {object}  models.Device
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices/{id} [delete]
func (api *API) DeleteDevice(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteDevice", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}

	var device models.Device
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&device, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("device"))
			}
			return res.Error
		}
		if err := api.linkage.ClearDeviceLinks(ctx, tx, device.ID); err != nil {
			return err
		}
		return tx.Delete(&device).Error
	})
	if err != nil {
		api.replyDeviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

func (api *API) replyDeviceError(c *gin.Context, err error) {
	var duplicate errDuplicateDevice
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
