package collection

import (
	"media-manager/core/commit"
	"media-manager/core/ordering"
	"media-manager/core/record"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new collection feature.
func NewFeature(coordinator *commit.Coordinator, orderer *ordering.Persister, records record.Store, logger *zap.Logger) *Feature {
	svc := NewService(coordinator, orderer, records, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "collection"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
