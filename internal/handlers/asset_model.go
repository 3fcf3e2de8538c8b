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

// ListAssetCategories lists all asset categories
// @Summary      List Asset Categories
// @Description  Lists all asset categories
// @Id           ListAssetCategories
// @Tags         AssetModels
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.AssetCategory
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/asset-categories [get]
func (api *API) ListAssetCategories(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListAssetCategories")
	defer span.End()
	categories := make([]*models.AssetCategory, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.AssetCategory{}, c, "name")).
		Find(&categories)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateAssetCategory creates an asset category
// @Summary      Create Asset Category
// @Description  Creates a new asset category. The code becomes the hostname
// @Description  postfix for assets in the category.
// @Id           CreateAssetCategory
// @Tags         AssetModels
// @Accept       json
// @Produce      json
// @Param        category  body   models.AddAssetCategory  true "Add Asset Category"
// @Success      201  {object}  models.AssetCategory
// @Failure      400  {object}  models.ValidationError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/asset-categories [post]
func (api *API) CreateAssetCategory(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateAssetCategory")
	defer span.End()
	var request models.AddAssetCategory
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}
	if request.Code == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("code"))
		return
	}
	category := models.AssetCategory{Name: request.Name, Code: request.Code}
	if res := api.db.WithContext(ctx).Create(&category); res.Error != nil {
		if database.IsDuplicateError(res.Error) {
			c.JSON(http.StatusConflict, models.NewConflictsError(category.ID.String()))
			return
		}
		api.sendInternalServerError(c, res.Error)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// ListAssetModels lists all asset models
// @Summary      List Asset Models
// @Description  Lists all asset models
// @Id           ListAssetModels
// @Tags         AssetModels
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.AssetModel
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/asset-models [get]
func (api *API) ListAssetModels(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListAssetModels")
	defer span.End()
	assetModels := make([]*models.AssetModel, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.AssetModel{}, c, "name")).
		Find(&assetModels)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, assetModels)
}

// GetAssetModel gets an asset model by ID
// @Summary      Get Asset Model
// @Description  Gets an asset model by ID
// @Id           GetAssetModel
// @Tags         AssetModels
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Asset Model ID"
// @Success      200  {object}  models.AssetModel
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/asset-models/{id} [get]
func (api *API) GetAssetModel(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetAssetModel", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var assetModel models.AssetModel
	result := api.db.WithContext(ctx).Preload("Category").First(&assetModel, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewNotFoundError("asset model"))
		return
	} else if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, assetModel)
}

// CreateAssetModel creates an asset model
// @Summary      Create Asset Model
// @Description  Creates a new asset model
// @Id           CreateAssetModel
// @Tags         AssetModels
// @Accept       json
// @Produce      json
// @Param        model  body   models.AddAssetModel  true "Add Asset Model"
// @Success      201  {object}  models.AssetModel
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/asset-models [post]
func (api *API) CreateAssetModel(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateAssetModel")
	defer span.End()
	var request models.AddAssetModel
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}

	var assetModel models.AssetModel
	err := api.transaction(ctx, func(tx *gorm.DB) error {
		if request.CategoryID != nil {
			var category models.AssetCategory
			if res := tx.First(&category, "id = ?", *request.CategoryID); res.Error != nil {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset category"))
			}
		}
		assetModel = models.AssetModel{
			Name:         request.Name,
			Manufacturer: request.Manufacturer,
			CategoryID:   request.CategoryID,
		}
		if res := tx.Create(&assetModel); res.Error != nil {
			if database.IsDuplicateError(res.Error) {
				return NewApiResponseError(http.StatusConflict, models.NewConflictsError(assetModel.ID.String()))
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
	c.JSON(http.StatusCreated, assetModel)
}

// UpdateAssetModel updates an asset model
// @Summary      Update Asset Model
// @Description  Updates an asset model by ID
// @Id           UpdateAssetModel
// @Tags         AssetModels
// @Accept       json
// @Produce      json
// @Param        id      path   string                   true "Asset Model ID"
// @Param        update  body   models.UpdateAssetModel  true "Asset Model Update"
// @Success      200  {object}  models.AssetModel
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/asset-models/{id} [patch]
func (api *API) UpdateAssetModel(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateAssetModel", trace.WithAttributes(
		attribute.String("id", c.Param("id")),
	))
	defer span.End()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}
	var request models.UpdateAssetModel
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	var assetModel models.AssetModel
	err = api.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.First(&assetModel, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset model"))
			}
			return res.Error
		}
		if request.Name != nil {
			assetModel.Name = *request.Name
		}
		if request.Manufacturer != nil {
			assetModel.Manufacturer = *request.Manufacturer
		}
		if request.CategoryID != nil {
			var category models.AssetCategory
			if res := tx.First(&category, "id = ?", *request.CategoryID); res.Error != nil {
				return NewApiResponseError(http.StatusNotFound, models.NewNotFoundError("asset category"))
			}
			assetModel.CategoryID = request.CategoryID
		}
		if res := tx.Save(&assetModel); res.Error != nil {
			if database.IsDuplicateError(res.Error) {
				return NewApiResponseError(http.StatusConflict, models.NewConflictsError(assetModel.ID.String()))
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
	c.JSON(http.StatusOK, assetModel)
}

// ListPartModels lists all part models
// @Summary      List Part Models
// @Description  Lists all part models
// @Id           ListPartModels
// @Tags         Parts
// @Accept       json
// @Produce      json
// @Success      200  {object}  []models.PartModel
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/part-models [get]
func (api *API) ListPartModels(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListPartModels")
	defer span.End()
	partModels := make([]*models.PartModel, 0)
	result := api.db.WithContext(ctx).
		Scopes(FilterAndPaginate(&models.PartModel{}, c, "name")).
		Find(&partModels)
	if result.Error != nil {
		api.sendInternalServerError(c, result.Error)
		return
	}
	c.JSON(http.StatusOK, partModels)
}

// CreatePartModel creates a part model
// @Summary      Create Part Model
// @Description  Creates a new part model
// @Id           CreatePartModel
// @Tags         Parts
// @Accept       json
// @Produce      json
// @Param        model  body   models.AddPartModel  true "Add Part Model"
// @Success      201  {object}  models.PartModel
// @Failure      400  {object}  models.ValidationError
// @Failure      409  {object}  models.ConflictsError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/part-models [post]
func (api *API) CreatePartModel(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreatePartModel")
	defer span.End()
	var request models.AddPartModel
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}
	if request.Name == "" {
		c.JSON(http.StatusBadRequest, models.NewFieldNotPresentError("name"))
		return
	}
	partModel := models.PartModel{Name: request.Name, ModelType: request.ModelType}
	if partModel.ModelType == "" {
		partModel.ModelType = models.PartModelOther
	}
	if res := api.db.WithContext(ctx).Create(&partModel); res.Error != nil {
		if database.IsDuplicateError(res.Error) {
			c.JSON(http.StatusConflict, models.NewConflictsError(partModel.ID.String()))
			return
		}
		api.sendInternalServerError(c, res.Error)
		return
	}
	c.JSON(http.StatusCreated, partModel)
}
