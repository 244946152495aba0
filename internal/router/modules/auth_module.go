package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
	handlers "github.com/Harsh-jhaa/Chat-app-backend/internal/interface/http"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/interface/middleware"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
)

// AuthModule wires authentication routes.
// Public: POST /api/auth/signup, /api/auth/login, /api/auth/logout
// Protected: GET /api/auth/me, POST /api/auth/onboarding, POST /api/auth/avatar
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", m.Handler.Signup)
	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.GET("/me", m.Handler.Me)
		auth.POST("/onboarding", m.Handler.Onboard)
		auth.POST("/avatar", m.Handler.UploadAvatar)
	}
}
