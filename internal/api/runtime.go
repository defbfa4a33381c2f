package api

import (
	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/internal/config"
	"github.com/scriba-dms/scriba/internal/infrastructure"
	"github.com/scriba-dms/scriba/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Tokens     *auth.Tokens
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "api"),
			Database:   infra.Database,
			Storage:    infra.Storage,
			Classifier: infra.Classifier,
		},
		Pagination: cfg.API.Pagination,
		Tokens:     auth.NewTokens(&cfg.Auth),
	}
}
