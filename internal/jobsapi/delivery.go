package jobsapi

import "github.com/labstack/echo/v4"

// Handler is the HTTP surface for job submission and tracking.
type Handler interface {
	Submit() echo.HandlerFunc
	Get() echo.HandlerFunc
	List() echo.HandlerFunc
}
