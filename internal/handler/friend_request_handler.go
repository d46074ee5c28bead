package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/response"
)

type friendRequestService interface {
	Accept(ctx context.Context, claims *models.JWTClaims, requestID int64) (*models.Friend, error)
}

// FriendRequestHandler answers friend requests.
type FriendRequestHandler struct {
	service friendRequestService
}

// NewFriendRequestHandler constructs the handler.
func NewFriendRequestHandler(svc friendRequestService) *FriendRequestHandler {
	return &FriendRequestHandler{service: svc}
}

// Accept godoc
// @Summary Accept friend request
// @Tags Friends
// @Produce json
// @Param friend_request_id path int true "Friend request ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /friend-requests/{friend_request_id}/accept [post]
func (h *FriendRequestHandler) Accept(c *gin.Context) {
	requestID, err := int64Param(c, "friend_request_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	friend, err := h.service.Accept(c.Request.Context(), claimsFromContext(c), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "friend request accepted", friend)
}
