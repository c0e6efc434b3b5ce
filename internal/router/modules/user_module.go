package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/intesigroup/user-registry/internal/container"
	"github.com/intesigroup/user-registry/internal/domain/entity"
	handlers "github.com/intesigroup/user-registry/internal/interface/http"
	"github.com/intesigroup/user-registry/internal/interface/middleware"
)

// UserModule wires the user CRUD routes under /api/users.
// Reads are open to every role; writes require OWNER or MAINTAINER,
// mirroring the authorization matrix of the identity provider.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	rdb := container.GetRedis()

	readRoles := []entity.Role{
		entity.RoleOwner, entity.RoleOperator, entity.RoleMaintainer,
		entity.RoleDeveloper, entity.RoleReporter,
	}
	writeRoles := []entity.Role{entity.RoleOwner, entity.RoleMaintainer}

	users := rg.Group("/users")
	users.Use(
		middleware.Authenticate(container.GetTokenVerifier(), cfg.SecurityEnabled),
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
	)

	users.GET("", middleware.RequireAnyRole(cfg.SecurityEnabled, readRoles...), m.Handler.List)
	users.GET("/:id", middleware.RequireAnyRole(cfg.SecurityEnabled, readRoles...), m.Handler.Get)

	write := middleware.RequireAnyRole(cfg.SecurityEnabled, writeRoles...)
	users.POST("", write, m.Handler.Create)
	users.PUT("/:id", write, m.Handler.Update)
	users.POST("/:id/disable", write, m.Handler.Disable)
	users.DELETE("/:id", write, m.Handler.SoftDelete)
}
