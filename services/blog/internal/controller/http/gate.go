package http

import (
	"net/http"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

const noticeCookie = "notice"

type Gate struct {
	gate     usecase.GateUseCase
	homePath string
	logger   *logger.Logger
}

func NewGate(gate usecase.GateUseCase, homePath string, logger *logger.Logger) *Gate {
	if homePath == "" {
		homePath = "/"
	}
	return &Gate{gate: gate, homePath: homePath, logger: logger}
}

// Require checks the viewer's moderation state before the handler runs.
// Denials are rendered for the kind of request: a JSON error for scripts, a
// redirect home with a notice for form submissions, and a notice page
// context for reads.
func (g *Gate) Require(action entity.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := g.gate.Check(c.Request.Context(), viewerFrom(c), action)
		if err != nil {
			g.logger.Error("Gate check failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Moderation check failed"})
			c.Abort()
			return
		}
		if decision.Allowed() {
			c.Next()
			return
		}

		g.deny(c, decision)
		c.Abort()
	}
}

func (g *Gate) deny(c *gin.Context, d entity.Decision) {
	banned := d.Kind == entity.SanctionBan
	msg := sanctionMessage(d.Kind, d.Reason)

	switch {
	case isAsync(c):
		body := gin.H{"success": false, "message": msg}
		if banned {
			body["banned"] = true
		} else {
			body["muted"] = true
		}
		c.JSON(http.StatusForbidden, body)

	case c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead:
		if banned {
			msg = "Your account has been banned and cannot perform this action. Reason: " + d.Reason
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(noticeCookie, msg, 60, "/", "", false, true)
		c.Redirect(http.StatusSeeOther, g.homePath)

	case banned:
		c.JSON(http.StatusForbidden, gin.H{
			"view":       "banned",
			"message":    msg,
			"ban_reason": d.Reason,
			"ban_until":  d.Until,
			"banned_by":  d.By,
		})

	default:
		c.JSON(http.StatusForbidden, gin.H{
			"view":        "muted",
			"message":     msg,
			"mute_reason": d.Reason,
			"mute_until":  d.Until,
			"muted_by":    d.By,
		})
	}
}
