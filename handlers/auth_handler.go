package handlers

import (
	"asso-cms/helper"
	"asso-cms/models"
	"asso-cms/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  services.AuthService
	resetService services.PasswordResetService
	Helper       *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, resetService services.PasswordResetService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		Helper:       &helper.HTTPHelper{},
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	response, err := h.authService.Register(req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Register success", gin.H{
		"user":  response.User,
		"token": response.Token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	response, err := h.authService.Login(req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Login success", gin.H{
		"user":  response.User,
		"token": response.Token,
	})
}

// ForgotPassword always answers with the same generic message whether or
// not the address belongs to an account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	if err := h.resetService.Issue(req.Email); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "If this address exists, you will receive a reset link", gin.H{})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	user, err := h.resetService.Consume(req.Token, req.Password)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Password updated", gin.H{"user": user})
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	var req models.VerifyResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	if err := h.resetService.Verify(req.Token); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Token is valid", gin.H{})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		h.Helper.SendUnauthorizedError(c, "User not found in context")
		return
	}

	user, err := h.authService.GetUserByID(userID.(uint))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		h.Helper.SendUnauthorizedError(c, "User not found in context")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(userID.(uint), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile updated", gin.H{"user": user})
}
