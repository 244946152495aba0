package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/application"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/response"
)

// writeServiceError maps application sentinels to client responses.
// Unexpected errors are logged with full context and surfaced as a generic
// internal error: no store error text reaches the client.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{verr.Field: verr.Message})
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrEmailTaken),
		errors.Is(err, application.ErrAlreadyFriends),
		errors.Is(err, application.ErrRequestExists),
		errors.Is(err, application.ErrAlreadyAccepted):
		response.Fail(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrRecipientNotFound),
		errors.Is(err, application.ErrRequestNotFound):
		response.Fail(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrNotRecipient):
		response.Fail(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, application.ErrSelfRequest):
		response.Fail(c, http.StatusBadRequest, err.Error(), nil)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("unexpected service error")
		response.Fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
