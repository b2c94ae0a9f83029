package http

import (
	"net/http"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxUploadMemory = 8 << 20

type PostHandler struct {
	postUseCase usecase.PostUseCase
	renderer    usecase.ContentRenderer
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, renderer usecase.ContentRenderer, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		renderer:    renderer,
		logger:      logger,
	}
}

type PostRequest struct {
	Title      string            `json:"title" binding:"required,max=200"`
	Content    string            `json:"content" binding:"required"`
	Visibility entity.Visibility `json:"visibility"`
	CategoryID string            `json:"category_id"`
}

func (r PostRequest) input() usecase.PostInput {
	return usecase.PostInput{
		Title:      r.Title,
		Content:    r.Content,
		Visibility: r.Visibility,
		CategoryID: r.CategoryID,
	}
}

// formatPost adds the plain-text preview shown in listings.
func (h *PostHandler) formatPost(post *entity.Post) gin.H {
	return gin.H{
		"id":              post.ID,
		"author_id":       post.AuthorID,
		"author_username": post.AuthorName,
		"category_id":     post.CategoryID,
		"category_name":   post.CategoryName,
		"title":           post.Title,
		"preview":         h.renderer.Preview(post.Content, 200),
		"visibility":      post.Visibility,
		"likes_count":     post.LikesCount,
		"favorites_count": post.FavoritesCount,
		"created_at":      post.CreatedAt,
		"updated_at":      post.UpdatedAt,
	}
}

func (h *PostHandler) formatPosts(posts []*entity.Post) []gin.H {
	out := make([]gin.H, len(posts))
	for i, p := range posts {
		out[i] = h.formatPost(p)
	}
	return out
}

// ListPosts godoc
// @Summary      List posts
// @Description  Posts visible to the caller, searchable by title, content or author handle
// @Tags         posts
// @Produce      json
// @Param        q     query string false "Search text"
// @Param        sort  query string false "likes (default), created or updated"
// @Param        page  query int    false "Page number"
// @Success      200  {object}  map[string]interface{}
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	sort := entity.ParsePostSort(c.Query("sort"))
	page, err := h.postUseCase.List(c.Request.Context(), viewerFrom(c), usecase.ListQuery{
		Query: c.Query("q"),
		Sort:  sort,
		Page:  pageParam(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       h.formatPosts(page.Posts),
		"total":       page.Total,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
		"query":       c.Query("q"),
		"sort":        sort,
	})
}

// GetPost godoc
// @Summary      Get a post
// @Description  Post detail with comments and the caller's reactions
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.PostDetail
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	detail, err := h.postUseCase.Get(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Publish a Markdown post with a visibility level
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PostRequest true "Post"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	post, err := h.postUseCase.Create(c.Request.Context(), viewerFrom(c), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary      Edit a post
// @Description  Only the author or an administrator may edit
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string      true "Post ID"
// @Param        request body PostRequest true "Post"
// @Success      200  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	post, err := h.postUseCase.Update(c.Request.Context(), viewerFrom(c), c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Only the author or an administrator may delete
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postUseCase.Delete(c.Request.Context(), viewerFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted"})
}

// LikePost godoc
// @Summary      Like or unlike a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	result, err := h.postUseCase.ToggleLike(c.Request.Context(), viewerFrom(c), c.Param("id"))
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

// FavoritePost godoc
// @Summary      Favorite or unfavorite a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/favorite [post]
func (h *PostHandler) FavoritePost(c *gin.Context) {
	result, err := h.postUseCase.ToggleFavorite(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"is_favorited":    result.Active,
		"favorites_count": result.Count,
		"message":         "",
	})
}

// Manuscripts godoc
// @Summary      An author's manuscripts
// @Description  The author's posts visible to the caller with per-category statistics
// @Tags         profiles
// @Produce      json
// @Param        username      path  string true  "Handle"
// @Param        category      query string false "Category ID"
// @Param        uncategorized query bool   false "Only posts without a category"
// @Success      200  {object}  entity.Manuscripts
// @Failure      404  {object}  map[string]string
// @Router       /profiles/{username}/manuscripts [get]
func (h *PostHandler) Manuscripts(c *gin.Context) {
	m, err := h.postUseCase.Manuscripts(c.Request.Context(), viewerFrom(c), c.Param("username"), usecase.ManuscriptQuery{
		CategoryID:    c.Query("category"),
		Uncategorized: c.Query("uncategorized") == "true",
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// UploadImage godoc
// @Summary      Upload an image for a post
// @Description  Stores the image and returns a Markdown snippet embedding it
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image (jpeg, png, gif or webp, max 5MB)"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /media [post]
func (h *PostHandler) UploadImage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		badRequest(c, "Failed to parse form: "+err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "Image file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("Failed to open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	url, snippet, err := h.postUseCase.UploadImage(
		c.Request.Context(),
		viewerFrom(c),
		file.Filename,
		file.Header.Get("Content-Type"),
		file.Size,
		src,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "url": url, "markdown": snippet})
}
