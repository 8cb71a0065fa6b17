package directory

import (
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
	api.GET("/donors", h.Search)
}

func (h *Handler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	q := Query{
		Name:       c.QueryParam("name"),
		Location:   c.QueryParam("location"),
		BloodGroup: c.QueryParam("blood_group"),
	}

	views, err := h.svc.Search(ctx, auth.UserIDFromContext(ctx), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}
