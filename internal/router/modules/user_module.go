package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/librarypal/user-service/internal/interface/http"
	"github.com/librarypal/user-service/internal/interface/middleware"
	"github.com/librarypal/user-service/pkg/helpers"
)

// UserModule wires the token-gated user lookups.
// Protected: GET /get-user-info, GET /users
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.JWT))
	{
		auth.GET("/get-user-info", m.Handler.GetUserInfo)
		auth.GET("/users", m.Handler.ListUsers)
	}
}
