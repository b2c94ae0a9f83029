package http

import (
	"net/http"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUseCase usecase.CommentUseCase
	logger         *logger.Logger
}

func NewCommentHandler(commentUseCase usecase.CommentUseCase, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{commentUseCase: commentUseCase, logger: logger}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment godoc
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string         true "Post ID"
// @Param        request body CommentRequest true "Comment"
// @Success      201  {object}  entity.Comment
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	comment, err := h.commentUseCase.Create(c.Request.Context(), viewerFrom(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  The comment author, the post author or an administrator may delete
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	viewer := viewerFrom(c)
	comment, err := h.commentUseCase.Delete(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	msg := "Comment deleted"
	if comment.AuthorID != viewer.ID && viewer.IsAdmin {
		msg = "Administrator action: deleted a comment by " + comment.AuthorName
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// LikeComment godoc
// @Summary      Like or unlike a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id}/like [post]
func (h *CommentHandler) LikeComment(c *gin.Context) {
	result, err := h.commentUseCase.ToggleLike(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"is_liked":    result.Active,
		"likes_count": result.Count,
		"message":     "",
	})
}
