package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/entity"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	ctxUserKey   = "currentUser"
)

// Auth is the session guard: it extracts the session cookie, verifies the
// token, and resolves it to a live user record. Pure gate, no side effects.
// It fails closed with 401 for a missing token, an unverifiable token, and
// a token whose user no longer exists.
func Auth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "unauthorized access - no token", nil)
			return
		}

		userID, err := jwt.Verify(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "unauthorized access - invalid token", nil)
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.Abort(c, http.StatusUnauthorized, "unauthorized access - user not found", nil)
				return
			}
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}

		// the repository never loads the hash into handlers' hands
		u.Password = ""
		c.Set(CtxUserIDKey, u.ID)
		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user resolved by Auth for this request.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}
