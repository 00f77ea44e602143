package server

import (
	"net/http"

	authHttp "github.com/sridhargunnam/framefeatures/internal/auth/delivery/http"
	authRepository "github.com/sridhargunnam/framefeatures/internal/auth/repository"
	authUsecase "github.com/sridhargunnam/framefeatures/internal/auth/usecase"
	jobHttp "github.com/sridhargunnam/framefeatures/internal/jobsapi/delivery/http"
	jobRepository "github.com/sridhargunnam/framefeatures/internal/jobsapi/repository"
	jobUsecase "github.com/sridhargunnam/framefeatures/internal/jobsapi/usecase"
	"github.com/sridhargunnam/framefeatures/internal/middleware"
	"github.com/sridhargunnam/framefeatures/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	aRepo := authRepository.NewAuthRepo(s.db)
	jRepo := jobRepository.NewJobRepo(s.db)
	jQueueRepo := jobRepository.NewJobQueueRepo(s.redisClient)

	authUC := authUsecase.NewAuthUseCase(s.cfg, aRepo, s.logger)
	jobUC := jobUsecase.NewJobUseCase(jRepo, jQueueRepo, s.logger)

	authHandlers := authHttp.NewAuthHandler(s.cfg, authUC, s.logger)
	jobHandlers := jobHttp.NewJobHandler(jobUC, s.logger)

	mw := middleware.NewMiddlewareManager(authUC, s.cfg, []string{"*"}, s.logger)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	authGroup := v1.Group("/auth")
	jobGroup := v1.Group("/jobs")

	authHttp.MapAuthRoutes(authGroup, authHandlers, mw, authUC, s.cfg)
	jobHttp.MapJobRoutes(jobGroup, jobHandlers, mw, authUC, s.cfg)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
