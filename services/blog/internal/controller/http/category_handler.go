package http

import (
	"net/http"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryUseCase usecase.CategoryUseCase
	logger          *logger.Logger
}

func NewCategoryHandler(categoryUseCase usecase.CategoryUseCase, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUseCase: categoryUseCase, logger: logger}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ListCategories godoc
// @Summary      Own categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.Category
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryUseCase.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CategoryRequest true "Category"
// @Success      201  {object}  entity.Category
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	category, err := h.categoryUseCase.Create(c.Request.Context(), viewerFrom(c), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// RenameCategory godoc
// @Summary      Rename a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string          true "Category ID"
// @Param        request body CategoryRequest true "Category"
// @Success      200  {object}  entity.Category
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /categories/{id} [put]
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	category, err := h.categoryUseCase.Rename(c.Request.Context(), viewerFrom(c), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Description  Posts in the category become uncategorized
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categoryUseCase.Delete(c.Request.Context(), viewerFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}
