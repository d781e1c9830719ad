package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaclinic-api/internal/middleware"
	"github.com/harentsoaR/dentaclinic-api/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// Signup bootstraps the platform SuperAdmin. Only one may ever exist.
func (h *Handler) Signup(c *gin.Context) {
	var req services.SignupInput
	if !bindJSON(c, &req) {
		return
	}
	user, profile, err := h.Auth.SignupSuperAdmin(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "SuperAdmin created successfully",
		"user":       user.Identity(),
		"superAdmin": profile,
	})
}

func (h *Handler) CheckSuperAdmin(c *gin.Context) {
	exists, err := h.Auth.SuperAdminExists(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"superAdminExists": exists})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout revokes the bearer token used for this request.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), claims); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the identity behind the token.
func (h *Handler) Me(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	user, err := h.Auth.Me(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Identity()})
}

// UpdatePassword changes the caller's own password after checking the
// current one.
func (h *Handler) UpdatePassword(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req updatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), caller.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
