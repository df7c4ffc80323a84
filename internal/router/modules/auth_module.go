package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentlink/talentlink-api/internal/container"
	handlers "github.com/talentlink/talentlink-api/internal/interface/http"
	"github.com/talentlink/talentlink-api/internal/interface/middleware"
	"github.com/talentlink/talentlink-api/pkg/helpers"
)

// AuthModule wires the public register/login surface.
// Public: POST /api/auth/register, POST /api/auth/login
// Protected: POST /api/auth/logout

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
