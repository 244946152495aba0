package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harsh-jhaa/Chat-app-backend/internal/application"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/interface/middleware"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/response"
)

type FriendHandler struct {
	Svc    *application.FriendService
	Logger *logrus.Logger
}

func NewFriendHandler(svc *application.FriendService, logger *logrus.Logger) *FriendHandler {
	return &FriendHandler{Svc: svc, Logger: logger}
}

// Recommend GET /api/user/
func (h *FriendHandler) Recommend(c *gin.Context) {
	users, err := h.Svc.Recommend(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"recommendedUsers": users}, "recommended users")
}

// Friends GET /api/user/friends
func (h *FriendHandler) Friends(c *gin.Context) {
	friends, err := h.Svc.ListFriends(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, friends, "friends")
}

// SendRequest POST /api/user/friend-request/:id
func (h *FriendHandler) SendRequest(c *gin.Context) {
	recipientID := c.Param("id")
	if _, err := uuid.Parse(recipientID); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"id": "must be a valid id"})
		return
	}
	fr, err := h.Svc.SendRequest(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), recipientID)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"friendRequest": fr}, "friend request sent")
}

// AcceptRequest PUT /api/user/friend-request/:id/accept
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	requestID := c.Param("id")
	if _, err := uuid.Parse(requestID); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"id": "must be a valid id"})
		return
	}
	fr, err := h.Svc.AcceptRequest(c.Request.Context(), requestID, c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"friendRequest": fr}, "friend request accepted")
}

// Requests GET /api/user/friend-requests returns incoming pending requests
// plus the caller's sent-and-accepted history.
func (h *FriendHandler) Requests(c *gin.Context) {
	incoming, accepted, err := h.Svc.ListIncoming(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"incomingRequests": incoming,
		"acceptedRequests": accepted,
	}, "friend requests")
}

// OutgoingRequests GET /api/user/outgoing-friend-requests
func (h *FriendHandler) OutgoingRequests(c *gin.Context) {
	outgoing, err := h.Svc.ListOutgoing(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, outgoing, "outgoing friend requests")
}
