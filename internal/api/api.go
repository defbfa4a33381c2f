// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/internal/config"
	"github.com/scriba-dms/scriba/internal/infrastructure"
	"github.com/scriba-dms/scriba/pkg/middleware"
	"github.com/scriba-dms/scriba/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))
	m.Use(auth.Middleware(runtime.Tokens, runtime.Logger, cfg.API.PublicPaths()...))

	return m, nil
}
