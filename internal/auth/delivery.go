package auth

import "github.com/labstack/echo/v4"

// Handler exposes operator registration/login and the current
// operator's own identity. Account-management endpoints the teacher's
// video-app exposed (update-by-id, API key issuance, owner-or-admin
// CRUD) have no job-submission counterpart and are dropped.
type Handler interface {
	Register() echo.HandlerFunc
	Login() echo.HandlerFunc
	GetMe() echo.HandlerFunc
}
