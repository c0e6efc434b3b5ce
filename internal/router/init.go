package router

import (
	userapp "github.com/intesigroup/user-registry/internal/application"
	"github.com/intesigroup/user-registry/internal/container"
	pginfra "github.com/intesigroup/user-registry/internal/infrastructure/postgres"
	handlers "github.com/intesigroup/user-registry/internal/interface/http"
	"github.com/intesigroup/user-registry/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	service := userapp.NewService(repo, container.GetRabbitPub(), container.GetLogger())
	handler := handlers.NewUserHandler(service, container.GetLogger())
	return modules.NewUserModule(handler)
}

// InitModules wires all application modules into the router registry.
// Called once during startup, after the container singletons are set.
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
