package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
	handlers "github.com/Harsh-jhaa/Chat-app-backend/internal/interface/http"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/interface/middleware"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
)

// FriendModule wires the relationship routes; every route requires a session.
type FriendModule struct {
	Handler *handlers.FriendHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewFriendModule(h *handlers.FriendHandler, users repository.UserRepository, jwt *helpers.JWTManager) *FriendModule {
	return &FriendModule{Handler: h, Users: users, JWT: jwt}
}

func (m *FriendModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.Use(middleware.Auth(m.Users, m.JWT))
	{
		user.GET("/", m.Handler.Recommend)
		user.GET("/friends", m.Handler.Friends)
		user.POST("/friend-request/:id", m.Handler.SendRequest)
		user.PUT("/friend-request/:id/accept", m.Handler.AcceptRequest)
		user.GET("/friend-requests", m.Handler.Requests)
		user.GET("/outgoing-friend-requests", m.Handler.OutgoingRequests)
	}
}
