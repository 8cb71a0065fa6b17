package donation

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	donors := api.Group("", auth.RequireRole("donor"))
	donors.POST("/donations", h.Record)
	donors.GET("/donations/status", h.Status)
}

type recordRequest struct {
	DonatedAt *time.Time `json:"donated_at"`
}

func (h *Handler) Record(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())

	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	at := time.Now()
	if req.DonatedAt != nil {
		at = *req.DonatedAt
	}

	st, err := h.svc.Record(c.Request().Context(), uid, at)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrCooldownActive):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *Handler) Status(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())

	st, err := h.svc.Current(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}
