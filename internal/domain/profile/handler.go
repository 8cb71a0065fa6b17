package profile

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
	api.POST("/profiles", h.Create)
	api.GET("/profiles/me", h.GetMe)
	api.PUT("/profiles/me", h.UpdateMe)
	api.POST("/profiles/me/upgrade", h.Upgrade)
	api.GET("/profiles/:id", h.Get)
	api.GET("/stats", h.Stats)
}

type createRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	BloodGroup   string `json:"blood_group"`
	Location     string `json:"location"`
	ProfileColor string `json:"profile_color"`
}

// Create registers the caller's profile. The profile ID is the JWT subject,
// never client-supplied.
func (h *Handler) Create(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated user")
	}

	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p := &Profile{
		ID:           uid,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         req.Role,
		BloodGroup:   req.BloodGroup,
		Location:     req.Location,
		ProfileColor: req.ProfileColor,
	}
	if err := h.svc.Create(c.Request().Context(), p); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetMe(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())

	var u Update
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Update(c.Request().Context(), uid, u)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

type upgradeRequest struct {
	BloodGroup string `json:"blood_group"`
}

func (h *Handler) Upgrade(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())

	var req upgradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpgradeToDonor(c.Request().Context(), uid, req.BloodGroup)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
