package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/skillswap-org/skillswap-backend/internal/services"
)

type AuthHandler struct {
  authService services.AuthService
  otpService  services.OtpService
}

func NewAuthHandler(authService services.AuthService, otpService services.OtpService) *AuthHandler {
  return &AuthHandler{authService: authService, otpService: otpService}
}

func (ah *AuthHandler) SendOtp(c *gin.Context) {
  var req struct {
    Email string `json:"email"`
    Phone string `json:"phone,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body"})
    return
  }
  if err := ah.otpService.SendOtp(c.Request.Context(), req.Email, req.Phone); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"email": req.Email}})
}

func (ah *AuthHandler) VerifyOtp(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Otp      string `json:"otp"`
    Password string `json:"password"`
    Name     string `json:"name"`
    Username string `json:"username"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body"})
    return
  }
  user, err := ah.otpService.VerifyOtp(c.Request.Context(), req.Email, req.Otp, req.Password, req.Name, req.Username)
  if err != nil {
    status := http.StatusBadRequest
    if errors.Is(err, services.ErrOtpNotFound) || errors.Is(err, services.ErrOtpInvalid) {
      status = http.StatusUnauthorized
    }
    c.JSON(status, gin.H{"success": false, "error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": user}})
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  accessToken, refreshToken, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  accessTTL := ah.authService.GetAccessTTL()
  expiresIn := int(accessTTL.Seconds())

  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  accessToken, refreshToken, err := ah.authService.Refresh(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  accessTTL := ah.authService.GetAccessTTL()
  expiresIn := int(accessTTL.Seconds())

  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.Logout(c.Request.Context()); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
