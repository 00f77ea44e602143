package http

import (
	"net/http"

	"github.com/sridhargunnam/framefeatures/internal/auth"
	"github.com/sridhargunnam/framefeatures/internal/config"
	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/sridhargunnam/framefeatures/pkg/logger"
	"github.com/labstack/echo/v4"
)

type authHandler struct {
	cfg    *config.Config
	authUc auth.UseCase
	logger logger.Logger
}

func NewAuthHandler(cfg *config.Config, authUc auth.UseCase, logger logger.Logger) auth.Handler {
	return &authHandler{
		cfg:    cfg,
		authUc: authUc,
		logger: logger,
	}
}

func (h *authHandler) Register() echo.HandlerFunc {
	return func(c echo.Context) error {
		operator := &models.Operator{}
		if err := c.Bind(operator); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}

		created, err := h.authUc.Register(c.Request().Context(), operator)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, created)
	}
}

func (h *authHandler) Login() echo.HandlerFunc {
	return func(c echo.Context) error {
		operator := &models.Operator{}
		if err := c.Bind(operator); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}

		loggedIn, err := h.authUc.Login(c.Request().Context(), operator)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, loggedIn)
	}
}

func (h *authHandler) GetMe() echo.HandlerFunc {
	return func(c echo.Context) error {
		operator, ok := c.Get("operator").(*models.Operator)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized access"})
		}
		return c.JSON(http.StatusOK, operator)
	}
}
