package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/assetd-io/assetd/internal/database"
	"github.com/assetd-io/assetd/internal/fflags"
	"github.com/assetd-io/assetd/internal/hostnames"
	"github.com/assetd-io/assetd/internal/linkage"
	"github.com/assetd-io/assetd/internal/models"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/assetd-io/assetd/internal/handlers")
}

type API struct {
	logger      *zap.SugaredLogger
	db          *gorm.DB
	fflags      *fflags.FFlags
	transaction database.TransactionFunc
	dialect     database.Dialect
	hostnames   *hostnames.Allocator
	linkage     *linkage.Synchronizer
}

func NewAPI(
	parent context.Context,
	logger *zap.SugaredLogger,
	db *gorm.DB,
	fflags *fflags.FFlags,
) (*API, error) {
	_, span := tracer.Start(parent, "NewAPI")
	defer span.End()

	transactionFunc, dialect, err := database.GetTransactionFunc(db)
	if err != nil {
		return nil, err
	}

	api := &API{
		logger:      logger,
		db:          db,
		fflags:      fflags,
		transaction: transactionFunc,
		dialect:     dialect,
		hostnames:   hostnames.NewAllocator(logger),
		linkage:     linkage.NewSynchronizer(logger),
	}
	return api, nil
}

func (api *API) sendInternalServerError(c *gin.Context, err error) {
	span := trace.SpanFromContext(c.Request.Context())
	span.RecordError(err)
	api.logger.Errorf("request failed: %s", err)
	c.JSON(http.StatusInternalServerError, models.InternalServerError{
		BaseError: models.BaseError{Error: "internal server error"},
		TraceId:   span.SpanContext().TraceID().String(),
	})
}
