package http

import (
	"net/http"
	"time"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase    usecase.AuthUseCase
	profileUseCase usecase.ProfileUseCase
	logger         *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, profileUseCase usecase.ProfileUseCase, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase:    authUseCase,
		profileUseCase: profileUseCase,
		logger:         logger,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,max=150"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required,len=11"`
	DisplayName string `json:"display_name" binding:"max=50"`
	Password    string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	Account *entity.Account `json:"account"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Register godoc
// @Summary      Register a new account
// @Description  Register with a handle, email, phone number and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	account, token, err := h.authUseCase.Register(c.Request.Context(), usecase.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Phone:       req.Phone,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, Account: account})
}

// Login godoc
// @Summary      Log in
// @Description  Authenticate by handle, email or phone number and return a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	account, token, err := h.authUseCase.Login(c.Request.Context(), req.Identifier, req.Password, req.RememberMe)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, Account: account})
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the current session token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	expiresAt := time.Now()
	if v, ok := c.Get("token_expires_at"); ok {
		expiresAt, _ = v.(time.Time)
	}

	if err := h.authUseCase.Logout(c.Request.Context(), c.GetString("token_id"), expiresAt); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// Me godoc
// @Summary      Current account
// @Description  Get the authenticated account with its moderation state
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Account
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	account, err := h.authUseCase.GetAccount(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// UpdateProfile godoc
// @Summary      Edit profile
// @Description  Change the display name or email of the authenticated account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200  {object}  entity.Account
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	account, err := h.profileUseCase.UpdateProfile(c.Request.Context(), c.GetString("user_id"), usecase.ProfileUpdate{
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Replace the password after confirming the current one
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.authUseCase.ChangePassword(c.Request.Context(), c.GetString("user_id"), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed"})
}

// GetProfile godoc
// @Summary      Public profile
// @Description  Get an account's profile with follower counts
// @Tags         profiles
// @Produce      json
// @Param        username path string true "Handle"
// @Success      200  {object}  entity.Profile
// @Failure      404  {object}  map[string]string
// @Router       /profiles/{username} [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileUseCase.GetProfile(c.Request.Context(), c.GetString("user_id"), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
