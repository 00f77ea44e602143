package http

import (
	"github.com/sridhargunnam/framefeatures/internal/auth"
	"github.com/sridhargunnam/framefeatures/internal/config"
	"github.com/sridhargunnam/framefeatures/internal/jobsapi"
	"github.com/sridhargunnam/framefeatures/internal/middleware"
	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/labstack/echo/v4"
)

// MapJobRoutes registers the job submission and tracking routes,
// gated behind the same operator JWT auth as every other control
// plane endpoint. Submission additionally requires the operator or
// admin role, which are the only two roles models.Operator defines.
func MapJobRoutes(jobGroup *echo.Group, h jobsapi.Handler, mw *middleware.MiddlewareManager, authUC auth.UseCase, cfg *config.Config) {
	jobGroup.Use(mw.AuthJWTMiddleware(authUC, cfg))
	jobGroup.POST("", h.Submit(), mw.RoleBasedAuthMiddleware([]models.Role{models.AdminRole, models.OperatorRole}))
	jobGroup.GET("", h.List())
	jobGroup.GET("/:job_id", h.Get())
}
