// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	healthfeature "github.com/mziyad24/academicrecords/internal/app/features/health"
	reportsfeature "github.com/mziyad24/academicrecords/internal/app/features/reports"
	"github.com/mziyad24/academicrecords/internal/app/features/shared/respond"
	studentsfeature "github.com/mziyad24/academicrecords/internal/app/features/students"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Every route is a read-only JSON view
// over the academic records database.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	return newRouter(appCfg, deps, logger), nil
}

func newRouter(appCfg AppConfig, deps DBDeps, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	reportsHandler := reportsfeature.NewHandler(deps.MongoDatabase, appCfg.TopStudentsLimit, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))

	studentsHandler := studentsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/students", studentsfeature.Routes(studentsHandler))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.NotFound(w, "no such route")
	})

	logger.Info("routes mounted", zap.Strings("prefixes", []string{"/health", "/reports", "/students"}))
	return r
}
