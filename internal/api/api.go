// Package api assembles the registry's HTTP API from the domain systems.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JaimeStill/reception-registry/internal/config"
	"github.com/JaimeStill/reception-registry/internal/infrastructure"
	"github.com/JaimeStill/reception-registry/pkg/handlers"
	"github.com/JaimeStill/reception-registry/pkg/middleware"
	"github.com/JaimeStill/reception-registry/pkg/openapi"
	"github.com/JaimeStill/reception-registry/pkg/routes"
)

// Mount builds the domain systems and mounts their routes, plus the
// generated OpenAPI document, on r under the configured base path.
func Mount(r chi.Router, cfg *config.Config, infra *infrastructure.Infrastructure) error {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)
	groups := routeGroups(runtime, domain)

	spec := openapi.Build(&cfg.API.OpenAPI, cfg.Version, cfg.API.BasePath, groups...)
	specHandler, err := openapi.Handler(spec)
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}

	r.Route(cfg.API.BasePath, func(r chi.Router) {
		r.Use(middleware.CORS(&cfg.API.CORS))
		r.Get("/openapi.json", specHandler)
		routes.Register(r, groups...)
	})
	return nil
}

// NewRouter creates the root router with the shared middleware stack.
func NewRouter(infra *infrastructure.Infrastructure) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.TrimSlash())
	r.Use(middleware.Logger(infra.Logger))
	r.Use(middleware.Metrics(infra.Metrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
	})
	return r
}
