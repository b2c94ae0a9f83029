package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/entity"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{entity.ErrInvalidInput, http.StatusBadRequest},
	{entity.ErrInvalidPhone, http.StatusBadRequest},
	{entity.ErrSelfFollow, http.StatusBadRequest},
	{entity.ErrNoSuchIdentity, http.StatusUnauthorized},
	{entity.ErrAuthFailure, http.StatusUnauthorized},
	{entity.ErrAccountBanned, http.StatusForbidden},
	{entity.ErrAccountMuted, http.StatusForbidden},
	{entity.ErrAccountInactive, http.StatusForbidden},
	{entity.ErrForbidden, http.StatusForbidden},
	{entity.ErrProtectedAccount, http.StatusForbidden},
	{entity.ErrNotVisible, http.StatusForbidden},
	{entity.ErrNotFound, http.StatusNotFound},
	{entity.ErrAlreadySanctioned, http.StatusConflict},
	{entity.ErrNotSanctioned, http.StatusConflict},
	{entity.ErrAlreadyFollowing, http.StatusConflict},
	{entity.ErrNotFollowing, http.StatusConflict},
	{entity.ErrUsernameTaken, http.StatusConflict},
	{entity.ErrEmailTaken, http.StatusConflict},
	{entity.ErrPhoneTaken, http.StatusConflict},
	{entity.ErrCategoryExists, http.StatusConflict},
}

// statusFor maps a use case error to an HTTP status and a message safe to
// show the caller.
func statusFor(err error) (int, string) {
	var invalid *entity.InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, invalid.Error()
	}
	var sanction *entity.SanctionError
	if errors.As(err, &sanction) {
		return http.StatusForbidden, sanctionMessage(sanction.Kind, sanction.Reason)
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	if isAsync(c) {
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	if isAsync(c) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// isAsync reports whether the caller is a script expecting a JSON payload
// rather than a page.
func isAsync(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func viewerFrom(c *gin.Context) entity.Viewer {
	return entity.Viewer{
		ID:      c.GetString("user_id"),
		IsAdmin: c.GetString("user_role") == entity.RoleAdmin,
	}
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func sanctionMessage(kind entity.SanctionKind, reason string) string {
	if kind == entity.SanctionBan {
		return fmt.Sprintf("Your account has been banned. Reason: %s", reason)
	}
	return fmt.Sprintf("You have been muted and cannot publish content. Reason: %s", reason)
}
