package router

import (
	"github.com/talentlink/talentlink-api/internal/application"
	"github.com/talentlink/talentlink-api/internal/container"
	pginfra "github.com/talentlink/talentlink-api/internal/infrastructure/postgres"
	handlers "github.com/talentlink/talentlink-api/internal/interface/http"
	"github.com/talentlink/talentlink-api/internal/router/modules"
)

func buildService() *application.Service {
	cfg := container.GetConfig()

	svc := application.NewService(
		pginfra.NewUserRepository(container.GetPGPool()),
		container.GetJWT(),
		container.GetLogger(),
	)
	svc.Redis = container.GetRedis()
	svc.ES = container.GetES()
	svc.ESUsersIndex = cfg.ESUsersIndex
	svc.Pub = container.GetRabbitPub()
	svc.GCS = container.GetGCS()
	svc.GCSBucket = cfg.GCSBucket
	svc.MailEnabled = cfg.MailSendEnabled
	return svc
}

// InitModules wires all application modules into the router registry.
// Called once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := buildService()

	authHandler := handlers.NewAuthHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(svc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
