package access

import (
	"errors"
	"net/http"

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
	api.POST("/donors/:id/access-requests", h.Ask)

	donors := api.Group("", auth.RequireRole("donor"))
	donors.GET("/access-requests", h.ListPending)
	donors.POST("/access-requests/:requesterId/approve", h.Approve)
	donors.POST("/access-requests/:requesterId/ignore", h.Ignore)
}

func (h *Handler) Ask(c echo.Context) error {
	ctx := c.Request().Context()
	requesterID := auth.UserIDFromContext(ctx)
	if requesterID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated user")
	}

	entry, err := h.svc.Ask(ctx, requesterID, auth.NameFromContext(ctx), c.Param("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) ListPending(c echo.Context) error {
	ctx := c.Request().Context()
	entries, err := h.svc.ListPending(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if entries == nil {
		entries = []*Request{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) Approve(c echo.Context) error {
	return h.resolve(c, StatusApproved)
}

func (h *Handler) Ignore(c echo.Context) error {
	return h.resolve(c, StatusIgnored)
}

func (h *Handler) resolve(c echo.Context, decision string) error {
	ctx := c.Request().Context()
	donorID := auth.UserIDFromContext(ctx)

	entry, err := h.svc.Resolve(ctx, donorID, c.Param("requesterId"), decision)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrSelfRequest), errors.Is(err, ErrInvalidDecision):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDonorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyResolved):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
