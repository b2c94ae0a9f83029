package middleware

import (
	"context"
	"net/http"
	"strings"

	"meow-site/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// RevocationChecker reports whether a session token was revoked before it
// expired (logout).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(jwtService *jwt.Service, revocations ...RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, msg := authenticate(c, jwtService, revocations)
		if claims == nil {
			if status == 0 {
				status, msg = http.StatusUnauthorized, "Authorization header required"
			}
			c.JSON(status, gin.H{"error": msg})
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is present
// and lets anonymous requests through otherwise. Invalid tokens are treated
// as anonymous.
func OptionalAuthMiddleware(jwtService *jwt.Service, revocations ...RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _, _ := authenticate(c, jwtService, revocations); claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtService *jwt.Service, revocations []RevocationChecker) (*jwt.Claims, int, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, 0, ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "Invalid authorization header format"
	}

	claims, err := jwtService.ValidateToken(parts[1])
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid token"
	}

	for _, r := range revocations {
		if r == nil {
			continue
		}
		revoked, err := r.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return nil, http.StatusInternalServerError, "Session check failed"
		}
		if revoked {
			return nil, http.StatusUnauthorized, "Session has ended"
		}
	}

	return claims, 0, ""
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("user_role", claims.Role)
	c.Set("token_id", claims.ID)
	if claims.ExpiresAt != nil {
		c.Set("token_expires_at", claims.ExpiresAt.Time)
	}
}
