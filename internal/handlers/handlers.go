package handlers

import (
	"net/http"

	"apidiff/internal/view"

	"github.com/labstack/echo/v4"
)

// service is the diff pipeline shared by all handlers. Set once at startup,
// immutable afterwards.
var service *view.Service

func Init(svc *view.Service) {
	service = svc
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
