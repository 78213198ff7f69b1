package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/librarypal/user-service/internal/interface/http"
	"github.com/librarypal/user-service/internal/interface/middleware"
	"github.com/librarypal/user-service/pkg/helpers"
)

// AuthModule wires the credential endpoints.
// Public: POST /signup, POST /login
// Protected: GET /verify-token (for external services)
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", m.Handler.Signup)
	rg.POST("/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.JWT))
	{
		auth.GET("/verify-token", m.Handler.VerifyToken)
	}
}
