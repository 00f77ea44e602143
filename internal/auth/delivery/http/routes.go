package http

import (
	"github.com/sridhargunnam/framefeatures/internal/auth"
	"github.com/sridhargunnam/framefeatures/internal/config"
	"github.com/sridhargunnam/framefeatures/internal/middleware"
	"github.com/labstack/echo/v4"
)

func MapAuthRoutes(authGroup *echo.Group, h auth.Handler, mw *middleware.MiddlewareManager, authUC auth.UseCase, cfg *config.Config) {
	authGroup.POST("/register", h.Register())
	authGroup.POST("/login", h.Login())
	authGroup.GET("/me", h.GetMe(), mw.AuthJWTMiddleware(authUC, cfg))
}
