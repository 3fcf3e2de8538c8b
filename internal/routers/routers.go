package routers

import (
	"context"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/assetd-io/assetd/internal/handlers"
)

const name = "github.com/assetd-io/assetd/internal/routers"

type APIRouterOptions struct {
	Logger      *zap.SugaredLogger
	Api         *handlers.API
	ClientId    string
	OidcURL     string
	InsecureTLS bool
}

func NewAPIRouter(ctx context.Context, o APIRouterOptions) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	loggerMiddleware := ginzap.GinzapWithConfig(o.Logger.Desugar(), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{
				zap.String("traceID", trace.SpanFromContext(c.Request.Context()).SpanContext().TraceID().String()),
			}
		},
	})

	r.Use(otelgin.Middleware(name, otelgin.WithPropagators(
		propagation.TraceContext{},
	)))
	r.Use(ginzap.RecoveryWithZap(o.Logger.Desugar(), true))

	newPrometheus().Use(r)

	private := r.Group("/api", loggerMiddleware)
	{
		api := o.Api

		// Auth is optional so the server can run standalone in dev and
		// behind the platform's identity provider in production.
		if o.OidcURL != "" {
			validateJWT, err := newValidateJWT(ctx, o)
			if err != nil {
				return nil, err
			}
			private.Use(validateJWT)
		}

		// Feature Flags
		private.GET("/fflags", api.ListFeatureFlags)
		private.GET("/fflags/:name", api.GetFeatureFlag)

		// Assets
		private.GET("/assets", api.ListAssets)
		private.GET("/assets/:id", api.GetAsset)
		private.POST("/assets", api.CreateAsset)
		private.PATCH("/assets/:id", api.UpdateAsset)
		private.DELETE("/assets/:id", api.DeleteAsset)
		private.POST("/assets/:id/exchange-parts", api.ExchangeAssetParts)

		// Devices
		private.GET("/devices", api.ListDevices)
		private.GET("/devices/:id", api.GetDevice)
		private.POST("/devices", api.CreateDevice)
		private.PATCH("/devices/:id", api.UpdateDevice)
		private.DELETE("/devices/:id", api.DeleteDevice)

		// Parts
		private.GET("/parts", api.ListParts)
		private.GET("/parts/:id", api.GetPart)
		private.POST("/parts", api.CreateParts)
		private.PATCH("/parts/:id", api.UpdatePart)
		private.DELETE("/parts/:id", api.DeletePart)
		private.GET("/part-models", api.ListPartModels)
		private.POST("/part-models", api.CreatePartModel)

		// Warehouses and racks
		private.GET("/warehouses", api.ListWarehouses)
		private.GET("/warehouses/:id", api.GetWarehouse)
		private.POST("/warehouses", api.CreateWarehouse)
		private.PATCH("/warehouses/:id", api.UpdateWarehouse)
		private.DELETE("/warehouses/:id", api.DeleteWarehouse)
		private.GET("/racks", api.ListRacks)
		private.POST("/racks", api.CreateRack)

		// Asset models and categories
		private.GET("/asset-models", api.ListAssetModels)
		private.GET("/asset-models/:id", api.GetAssetModel)
		private.POST("/asset-models", api.CreateAssetModel)
		private.PATCH("/asset-models/:id", api.UpdateAssetModel)
		private.GET("/asset-categories", api.ListAssetCategories)
		private.POST("/asset-categories", api.CreateAssetCategory)

		// Licences
		private.GET("/licences", api.ListLicences)
		private.GET("/licences/:id", api.GetLicence)
		private.POST("/licences", api.CreateLicence)
		private.PATCH("/licences/:id", api.UpdateLicence)
		private.DELETE("/licences/:id", api.DeleteLicence)

		// Supports
		private.GET("/supports", api.ListSupports)
		private.GET("/supports/:id", api.GetSupport)
		private.POST("/supports", api.CreateSupport)
		private.PATCH("/supports/:id", api.UpdateSupport)
		private.DELETE("/supports/:id", api.DeleteSupport)

		// Internal surface for the hosting inventory platform
		private.GET("/ralph/assets", api.GetRalphAsset)
		private.GET("/ralph/assets/:id/assigned", api.GetRalphAssetAssigned)
		private.POST("/ralph/assign", api.AssignRalphAsset)
	}

	// Don't log the health/readiness checks.
	r.GET("/ready", o.Api.Ready)
	r.GET("/live", o.Api.Live)

	return r, nil
}

func newPrometheus() *ginprometheus.Prometheus {
	p := ginprometheus.NewPrometheus("apiserver")
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		url := c.Request.URL.Path
		for _, p := range c.Params {
			if p.Key == "id" {
				url = strings.Replace(url, p.Value, ":id", 1)
				break
			}
		}
		return url
	}
	return p
}
