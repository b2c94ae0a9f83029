package http

import (
	"net/http"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followUseCase usecase.FollowUseCase
	logger        *logger.Logger
}

func NewFollowHandler(followUseCase usecase.FollowUseCase, logger *logger.Logger) *FollowHandler {
	return &FollowHandler{followUseCase: followUseCase, logger: logger}
}

// Follow godoc
// @Summary      Follow an account
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /users/{id}/follow [post]
func (h *FollowHandler) Follow(c *gin.Context) {
	status, err := h.followUseCase.Follow(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Followed", "status": status, "is_following": true})
}

// Unfollow godoc
// @Summary      Unfollow an account
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /users/{id}/follow [delete]
func (h *FollowHandler) Unfollow(c *gin.Context) {
	status, err := h.followUseCase.Unfollow(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Unfollowed", "status": status, "is_following": false})
}

// FollowStatus godoc
// @Summary      Follow status
// @Description  Whether the caller follows the account, follower counts and moderation flags
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/follow-status [get]
func (h *FollowHandler) FollowStatus(c *gin.Context) {
	status, err := h.followUseCase.Status(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status, "is_following": status.IsFollowing})
}
