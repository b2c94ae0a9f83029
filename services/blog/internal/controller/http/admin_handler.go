package http

import (
	"fmt"
	"net/http"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUseCase      usecase.AdminUseCase
	moderationUseCase usecase.ModerationUseCase
	logger            *logger.Logger
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase, moderationUseCase usecase.ModerationUseCase, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminUseCase:      adminUseCase,
		moderationUseCase: moderationUseCase,
		logger:            logger,
	}
}

type MuteRequest struct {
	DurationHours *int   `json:"duration_hours"`
	Reason        string `json:"reason"`
}

type BanRequest struct {
	DurationDays *int   `json:"duration_days"`
	Reason       string `json:"reason"`
}

func durationText(n *int, unit string) string {
	if n == nil {
		return "permanently"
	}
	return fmt.Sprintf("for %d %s", *n, unit)
}

// bindOptional binds a JSON body when one is present. An empty body means
// every field takes its default.
func bindOptional(c *gin.Context, req interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(req)
}

// Dashboard godoc
// @Summary      Administrator dashboard
// @Description  Site totals and the most recent accounts, posts and comments
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Dashboard
// @Failure      403  {object}  map[string]string
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.adminUseCase.Dashboard(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ListAccounts godoc
// @Summary      List accounts
// @Description  Accounts with their moderation state, newest first, 20 per page
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Success      200  {object}  entity.AccountPage
// @Failure      403  {object}  map[string]string
// @Router       /admin/accounts [get]
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	page, err := h.adminUseCase.ListAccounts(c.Request.Context(), c.GetString("user_id"), pageParam(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// DeleteAccount godoc
// @Summary      Delete an account
// @Description  Removes the account with its posts, comments, categories and follows
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/accounts/{id} [delete]
func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	account, err := h.adminUseCase.DeleteAccount(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("User %s has been deleted", account.Username)})
}

// Mute godoc
// @Summary      Mute an account
// @Description  Muted accounts cannot publish posts, comments, categories or media. Omit duration_hours to mute permanently
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string      true  "Account ID"
// @Param        request body MuteRequest false "Duration and reason"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/accounts/{id}/mute [post]
func (h *AdminHandler) Mute(c *gin.Context) {
	var req MuteRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "Invalid time parameter")
		return
	}

	account, err := h.moderationUseCase.Mute(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.DurationHours, req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("User %s has been muted %s", account.Username, durationText(req.DurationHours, "hours")),
		"moderation": account.Moderation,
	})
}

// Unmute godoc
// @Summary      Lift a mute
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/accounts/{id}/unmute [post]
func (h *AdminHandler) Unmute(c *gin.Context) {
	account, err := h.moderationUseCase.Unmute(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("User %s is no longer muted", account.Username),
		"moderation": account.Moderation,
	})
}

// Ban godoc
// @Summary      Ban an account
// @Description  Banned accounts cannot log in or perform any action. Omit duration_days to ban permanently
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string     true  "Account ID"
// @Param        request body BanRequest false "Duration and reason"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/accounts/{id}/ban [post]
func (h *AdminHandler) Ban(c *gin.Context) {
	var req BanRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "Invalid time parameter")
		return
	}

	account, err := h.moderationUseCase.Ban(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.DurationDays, req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("User %s has been banned %s", account.Username, durationText(req.DurationDays, "days")),
		"moderation": account.Moderation,
	})
}

// Unban godoc
// @Summary      Lift a ban
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/accounts/{id}/unban [post]
func (h *AdminHandler) Unban(c *gin.Context) {
	account, err := h.moderationUseCase.Unban(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("User %s is no longer banned", account.Username),
		"moderation": account.Moderation,
	})
}
