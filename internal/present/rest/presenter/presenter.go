package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/totegamma/capitalist/internal/domain"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func BadRequest(c echo.Context, err error) error {
	logrus.WithError(err).Debug("bad request")
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	logrus.WithField("reason", msg).Debug("bad request")
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	logrus.WithField("reason", msg).Debug("not found")
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	logrus.WithError(err).Error("internal error")
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func Unavailable(c echo.Context, msg string) error {
	return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: msg})
}

// Error maps a directory failure to its user-facing response.
func Error(c echo.Context, err error) error {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return NotFound(c, "not found")
	case domain.KindMaxReached:
		return c.JSON(http.StatusConflict, errorResponse{Error: "5 countries max"})
	case domain.KindNetwork:
		logrus.WithError(err).Warn("upstream failure")
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error(), Retryable: true})
	case domain.KindLocationDenied:
		return c.JSON(http.StatusForbidden, errorResponse{Error: "location unavailable"})
	default:
		return InternalError(c, err)
	}
}
