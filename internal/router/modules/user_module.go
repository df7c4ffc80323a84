package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentlink/talentlink-api/internal/container"
	"github.com/talentlink/talentlink-api/internal/domain/entity"
	handlers "github.com/talentlink/talentlink-api/internal/interface/http"
	"github.com/talentlink/talentlink-api/internal/interface/middleware"
	"github.com/talentlink/talentlink-api/pkg/helpers"
)

// UserModule wires the protected profile surface.
// Protected: GET /api/me, PUT /api/me, POST /api/me/avatar
// Admin only: GET /api/users/search

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/me", m.Handler.UpdateMe)
		auth.POST("/me/avatar", m.Handler.UploadAvatar)

		admin := auth.Group("/")
		admin.Use(middleware.RequireRole(entity.RoleAdmin.String()))
		admin.GET("/users/search", m.Handler.Search)
	}
}
