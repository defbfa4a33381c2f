package api

import (
	"net/http"

	"github.com/scriba-dms/scriba/internal/config"
	"github.com/scriba-dms/scriba/internal/workflow"
	"github.com/scriba-dms/scriba/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	scans := newScanHandler(
		domain.Documents,
		domain.Users,
		runtime.Storage,
		runtime.Logger,
	)

	routes.Register(
		mux,
		domain.Users.Handler(runtime.Tokens).Routes(),
		domain.Documents.Handler(domain.Users, cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Audits.Handler().Routes(),
		domain.Signatures.Handler().Routes(),
		domain.Archives.Handler().Routes(),
		domain.Statistics.Handler(domain.Users).Routes(),
		workflow.NewHandler(domain.Workflow, runtime.Logger).Routes(),
		scans.routes(),
	)
}
