package router

import (
	"github.com/Harsh-jhaa/Chat-app-backend/internal/application"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/container"
	handlers "github.com/Harsh-jhaa/Chat-app-backend/internal/interface/http"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/infrastructure/postgres"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/router/modules"
)

// InitModules builds the repositories, services, and handlers from the
// container singletons and registers every feature module. Called once at
// startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := postgres.NewUserRepository(pool)
	requests := postgres.NewFriendRequestRepository(pool)

	authSvc := application.NewAuthService(
		users,
		container.GetJWT(),
		container.GetChatSyncPub(),
		container.GetEmailPub(),
		container.GetRedis(),
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
	)
	friendSvc := application.NewFriendService(users, requests, container.GetRedis(), logger)

	authHandler := handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure || cfg.Production())
	friendHandler := handlers.NewFriendHandler(friendSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, users, container.GetJWT()))
	r.Add(modules.NewFriendModule(friendHandler, users, container.GetJWT()))
}
