package handler

import (
	"net/http"

	"userauth/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness. It does not touch storage.
func HealthCheck(c echo.Context) error {
	return response.SuccessWithMessage(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
