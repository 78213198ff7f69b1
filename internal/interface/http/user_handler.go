package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/librarypal/user-service/internal/application"
	"github.com/librarypal/user-service/pkg/response"
)

type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// GetUserInfo handles GET /get-user-info. The target user comes from the
// integer "id" request header; the bearer token only gates access and does
// not need to match the target.
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	id, err := strconv.ParseInt(c.GetHeader("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"id": "must be an integer header"})
		return
	}

	info, err := h.Svc.GetUserInfo(c.Request.Context(), id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, info)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", nil)
	default:
		h.Logger.WithError(err).Error("get user info failed")
		response.Error(c, http.StatusServiceUnavailable, "service unavailable", nil)
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	infos, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Error(c, http.StatusServiceUnavailable, "service unavailable", nil)
		return
	}
	c.JSON(http.StatusOK, infos)
}
