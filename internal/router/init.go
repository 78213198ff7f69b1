package router

import (
	"github.com/librarypal/user-service/internal/application"
	"github.com/librarypal/user-service/internal/container"
	repouser "github.com/librarypal/user-service/internal/domain/repository"
	pginfra "github.com/librarypal/user-service/internal/infrastructure/postgres"
	handlers "github.com/librarypal/user-service/internal/interface/http"
	"github.com/librarypal/user-service/internal/router/modules"
)

type UserModuleDeps struct {
	Repo        repouser.UserRepository
	Service     *application.Service
	AuthHandler *handlers.AuthHandler
	UserHandler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := application.NewService(
		repo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
	)

	return UserModuleDeps{
		Repo:        repo,
		Service:     service,
		AuthHandler: handlers.NewAuthHandler(service, container.GetLogger()),
		UserHandler: handlers.NewUserHandler(service, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildUserDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(container.GetPGPool())))
	r.Add(modules.NewAuthModule(deps.AuthHandler, jwt))
	r.Add(modules.NewUserModule(deps.UserHandler, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
