// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	groupsfeature "github.com/campushq/studyhub/internal/app/features/groups"
	healthfeature "github.com/campushq/studyhub/internal/app/features/health"
	groupsvc "github.com/campushq/studyhub/internal/app/service/groups"
	groupstore "github.com/campushq/studyhub/internal/app/store/groups"
	"github.com/campushq/studyhub/internal/domain/groups"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. StudyHub mounts the health endpoint and
// the study-group JSON API.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	store := groupstore.New(deps.MongoDatabase)
	svc := groupsvc.New(store, logger,
		groupsvc.WithCodeGenerator(groups.NewCodeGenerator(appCfg.AccessCodeLength)))

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Study group API
	groupsHandler := groupsfeature.NewHandler(svc, appCfg.DefaultMaxMembers, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	return r, nil
}
