// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	groupsvc "github.com/campushq/studyhub/internal/app/service/groups"
	groupstore "github.com/campushq/studyhub/internal/app/store/groups"
	"github.com/campushq/studyhub/internal/app/system/workers"
	"github.com/campushq/studyhub/internal/domain/groups"
)

// sweeper is started in Startup and stopped in Shutdown.
var sweeper *workers.MeetingSweep

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. StudyHub
// launches the background worker that reconciles meeting statuses so
// transitions land even when nobody is reading a group.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	store := groupstore.New(deps.MongoDatabase)
	svc := groupsvc.New(store, logger,
		groupsvc.WithCodeGenerator(groups.NewCodeGenerator(appCfg.AccessCodeLength)))

	sweeper = workers.NewMeetingSweep(svc, logger, appCfg.SweepInterval)
	sweeper.Start()
	return nil
}
