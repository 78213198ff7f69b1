package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/librarypal/user-service/internal/application"
	"github.com/librarypal/user-service/internal/interface/middleware"
	"github.com/librarypal/user-service/pkg/response"
	"github.com/librarypal/user-service/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.SignUp(c.Request.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Sign-up successful"})
	case errors.Is(err, application.ErrUsernameTaken):
		response.Error(c, http.StatusBadRequest, "Username already exists", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusBadRequest, "Email already exists", nil)
	default:
		h.Logger.WithError(err).Error("signup failed")
		response.Error(c, http.StatusServiceUnavailable, "service unavailable", nil)
	}
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"id": res.ID, "token": res.Token})
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusBadRequest, "Invalid credentials", nil)
	default:
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusServiceUnavailable, "service unavailable", nil)
	}
}

// VerifyToken handles GET /verify-token. The bearer middleware has already
// rejected invalid tokens with a 401, so reaching here means the claims are
// good; the body echoes them back for external services.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"username": claims.Username(),
		"expires":  claims.ExpiresAt.Unix(),
	})
}
