package httpx

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SUJAY300/medi-vault-web-app/internal/http/handlers"
	"github.com/SUJAY300/medi-vault-web-app/internal/http/middleware"
)

// BuildRouter wires the auth endpoints
func BuildRouter(ah *handlers.AuthHandlers, logger *zap.Logger) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))

	r.GET("/health", ah.Health)

	auth := r.Group("/auth")
	auth.POST("/login", ah.Login)
	auth.POST("/signup", ah.Signup)
	auth.POST("/otp/send", ah.SendOTP)
	auth.POST("/otp/verify", ah.VerifyOTP)

	return r, nil
}
