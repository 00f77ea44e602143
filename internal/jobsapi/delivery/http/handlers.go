package http

import (
	"net/http"

	"github.com/sridhargunnam/framefeatures/internal/jobsapi"
	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/sridhargunnam/framefeatures/pkg/logger"
	"github.com/sridhargunnam/framefeatures/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type jobHandler struct {
	jobUC  jobsapi.UseCase
	logger logger.Logger
}

func NewJobHandler(jobUC jobsapi.UseCase, logger logger.Logger) jobsapi.Handler {
	return &jobHandler{
		jobUC:  jobUC,
		logger: logger,
	}
}

func (h *jobHandler) Submit() echo.HandlerFunc {
	return func(c echo.Context) error {
		job := &models.Job{}
		if err := c.Bind(job); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}

		operator, ok := c.Get("operator").(*models.Operator)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		created, err := h.jobUC.Submit(c.Request().Context(), job, operator.OperatorID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, created)
	}
}

func (h *jobHandler) Get() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid job id"})
		}

		job, err := h.jobUC.GetByID(c.Request().Context(), jobID)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *jobHandler) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		jobs, err := h.jobUC.List(c.Request().Context(), pagination)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, jobs)
	}
}
