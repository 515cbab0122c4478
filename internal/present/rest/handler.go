package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/totegamma/capitalist"
	"github.com/totegamma/capitalist/internal/domain"
	"github.com/totegamma/capitalist/internal/infra/gateway"
	"github.com/totegamma/capitalist/internal/present/rest/presenter"
	"github.com/totegamma/capitalist/internal/service"
	"github.com/totegamma/capitalist/internal/usecase"
)

type Handler struct {
	directory      *usecase.Directory
	signal         *service.SignalService
	defaultCountry string
	logger         logrus.FieldLogger
}

// NewHandler builds the REST surface. signal may be nil, which disables /realtime.
func NewHandler(
	directory *usecase.Directory,
	signal *service.SignalService,
	defaultCountry string,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		directory:      directory,
		signal:         signal,
		defaultCountry: defaultCountry,
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/countries", h.handleCountries)
	e.GET("/api/v1/countries/:code", h.handleCountry)
	e.GET("/api/v1/search", h.handleSearch)
	e.GET("/api/v1/locate", h.handleLocate)
	e.GET("/api/v1/saved", h.handleSaved)
	e.POST("/api/v1/saved", h.handleSave)
	e.DELETE("/api/v1/saved/:code", h.handleRemove)
	e.POST("/api/v1/onboarding", h.handleOnboarding)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleCountries(c echo.Context) error {
	ctx := c.Request().Context()

	countries, err := h.directory.GetAllCountries(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}

	body, err := json.Marshal(countries)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	etag := capitalist.ETag(body)
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSONBlob(http.StatusOK, body)
}

func (h *Handler) handleCountry(c echo.Context) error {
	ctx := c.Request().Context()

	country, err := h.directory.GetCountryByCode(ctx, c.Param("code"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, country)
}

func (h *Handler) handleSearch(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.QueryParam("name")
	if strings.TrimSpace(name) == "" {
		return presenter.BadRequestMessage(c, "name parameter is required")
	}

	country, err := h.directory.GetCountryByName(ctx, name)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, country)
}

func (h *Handler) handleLocate(c echo.Context) error {
	ctx := c.Request().Context()

	lat, lon, ok := parseCoordinates(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid lat/lon parameters")
	}

	country, err := h.directory.GetCountryByLocation(ctx, lat, lon)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, country)
}

func (h *Handler) handleSaved(c echo.Context) error {
	ctx := c.Request().Context()

	saved, err := h.directory.GetSavedCountries(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, saved)
}

func (h *Handler) handleSave(c echo.Context) error {
	ctx := c.Request().Context()

	var country domain.Country
	err := c.Bind(&country)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if country.Code == "" {
		return presenter.BadRequestMessage(c, "alpha3Code is required")
	}

	// a bare code is completed from the catalog
	if country.Name == "" {
		country, err = h.directory.GetCountryByCode(ctx, country.Code)
		if err != nil {
			return presenter.Error(c, err)
		}
	}

	added, err := h.directory.SaveCountry(ctx, country)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"added": added})
}

func (h *Handler) handleRemove(c echo.Context) error {
	ctx := c.Request().Context()

	removed, err := h.directory.RemoveCountry(ctx, c.Param("code"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"removed": removed})
}

func (h *Handler) handleOnboarding(c echo.Context) error {
	ctx := c.Request().Context()

	var location usecase.LocationProvider = gateway.NoLocation()
	if c.QueryParam("lat") != "" || c.QueryParam("lon") != "" {
		lat, lon, ok := parseCoordinates(c)
		if !ok {
			return presenter.BadRequestMessage(c, "invalid lat/lon parameters")
		}
		location = gateway.NewStaticLocation(lat, lon)
	}

	onboarding := usecase.NewOnboarding(h.directory, location, h.defaultCountry, h.logger)
	saved, err := onboarding.Run(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, saved)
}

func parseCoordinates(c echo.Context) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil {
		return presenter.Unavailable(c, "realtime requires redis")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.WithError(err).WithField("module", "socket").Error("Failed to upgrade WebSocket")
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan capitalist.Event)
	go h.signal.Realtime(ctx, output)

	quit := make(chan struct{}, 1)

	go func() {
		for {
			var req capitalist.RealtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						h.logger.WithError(wsErr).WithField("module", "socket").Debug("WebSocket closed")
					}
				} else {
					h.logger.WithError(err).WithField("module", "socket").Error("Error reading message")
				}

				quit <- struct{}{}
				return
			}

			switch req.Type {
			case "h": // heartbeat
			default:
				h.logger.WithFields(logrus.Fields{
					"type":   req.Type,
					"module": "socket",
				}).Info("Unknown request type")
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				h.logger.WithError(err).WithField("module", "socket").Error("Error writing message")
				return nil
			}
		}
	}
}
