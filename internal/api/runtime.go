package api

import (
	"github.com/JaimeStill/reception-registry/internal/config"
	"github.com/JaimeStill/reception-registry/internal/infrastructure"
	"github.com/JaimeStill/reception-registry/internal/qrcodes"
	"github.com/JaimeStill/reception-registry/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	QR         qrcodes.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		QR:             cfg.QR,
	}
}
