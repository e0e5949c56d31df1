package openapifx

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Handler serves the OpenAPI UI for the registered swagger spec.
type Handler struct {
	config Config
	spec   *swag.Spec

	logger *zap.Logger
}

func New(config Config, spec *swag.Spec, logger *zap.Logger) *Handler {
	return &Handler{
		config: config,
		spec:   spec,
		logger: logger,
	}
}

func (h *Handler) Register(r fiber.Router) {
	if !h.config.Enabled {
		h.logger.Info("OpenAPI UI disabled")
		return
	}

	if h.config.PublicHost != "" {
		h.spec.Host = h.config.PublicHost
	}
	if h.config.PublicPath != "" {
		h.spec.BasePath = h.config.PublicPath
	}

	r.Get("/*", swagger.HandlerDefault)
}
