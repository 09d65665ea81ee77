package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billbook-api/pkg/oauth"
	"go.uber.org/zap"
)

const (
	oauthStateCookie = "billbook_oauth_state"
	oauthStateMaxAge = 600
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	googleOAuth  *oauth.GoogleOAuthService
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, googleOAuth *oauth.GoogleOAuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		googleOAuth:  googleOAuth,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func tokenPayload(output *service.LoginOutput) gin.H {
	return gin.H{
		"user":          output.User,
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	}
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and return tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", tokenPayload(output))
}

// Register handles user registration. The superkey is returned only here.
// @Summary Register
// @Description Create a new user account and return its superkey
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "Registration data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.Register(c.Request.Context(), &service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := tokenPayload(&output.LoginOutput)
	payload["superkey"] = output.Superkey
	response.Created(c, "Registration successful. Store your superkey safely, it will not be shown again", payload)
}

// RefreshToken handles token refresh
// @Summary Refresh Token
// @Description Refresh access token using refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", gin.H{
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	})
}

// ResetPassword handles a superkey backed password reset
// @Summary Reset Password
// @Description Reset password using the account superkey
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), &service.ResetPasswordInput{
		Email:       req.Email,
		Superkey:    req.Superkey,
		NewPassword: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset successfully", nil)
}

// GoogleAuth redirects the browser to the Google consent page
// @Summary Google Sign-In
// @Tags auth
// @Success 307
// @Router /auth/google [get]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	if !h.googleOAuth.IsConfigured() {
		response.ErrorWithCode(c, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	state, err := oauth.NewState()
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.AuthURL(state))
}

// GoogleCallback completes Google sign-in and hands the tokens to the frontend
// in the URL fragment.
// @Summary Google Sign-In Callback
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 307
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	expected, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)

	state := c.Query("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		h.redirectError(c, oauth.ErrInvalidState)
		return
	}
	if reason := c.Query("error"); reason != "" {
		h.redirectError(c, errors.New(reason))
		return
	}

	profile, err := h.googleOAuth.FetchProfile(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.redirectError(c, err)
		return
	}

	output, err := h.authService.LoginWithGoogle(c.Request.Context(), profile)
	if err != nil {
		h.redirectError(c, err)
		return
	}

	fragment := url.Values{}
	fragment.Set("access_token", output.AccessToken)
	fragment.Set("refresh_token", output.RefreshToken)
	fragment.Set("token_type", "Bearer")
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.FrontendSuccessURL()+"#"+fragment.Encode())
}

func (h *AuthHandler) redirectError(c *gin.Context, err error) {
	h.logger.Warn("google sign-in failed", zap.Error(err))
	reason := "sign_in_failed"
	switch {
	case errors.Is(err, oauth.ErrInvalidState):
		reason = "invalid_state"
	case errors.Is(err, oauth.ErrEmailNotVerified):
		reason = "email_not_verified"
	case errors.Is(err, oauth.ErrOAuthNotConfigured):
		reason = "not_configured"
	}
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.FrontendErrorURL()+"?error="+url.QueryEscape(reason))
}

// GetProfile handles fetching current user profile
// @Summary Get Profile
// @Description Get current user's profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{"user": user})
}

// UpdateProfile handles updating user profile
// @Summary Update Profile
// @Description Update current user's name and store details
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.UpdateProfileRequest true "Profile data"
// @Success 200 {object} response.APIResponse
// @Router /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), &service.UpdateProfileInput{
		UserID:           userID,
		Name:             req.Name,
		StoreName:        req.StoreName,
		StoreAddress:     req.StoreAddress,
		StorePhone:       req.StorePhone,
		StoreCountryCode: req.StoreCountryCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile updated successfully", gin.H{"user": user})
}

// ChangePassword handles password change
// @Summary Change Password
// @Description Change current user's password
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ChangePasswordRequest true "Password change data"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /profile/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), &service.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password changed successfully", nil)
}
