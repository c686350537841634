package dispatch

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediflow/mediflow/internal/platform/auth"
	"github.com/mediflow/mediflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/service-requests", h.CreateRequest, auth.RequireRole(auth.RoleRegistrar, auth.RoleDispatcher))
	api.GET("/service-requests", h.ListRequests, auth.RequireRole(auth.RoleDispatcher, auth.RoleFieldAgent))
	api.GET("/service-requests/:id", h.GetRequest, auth.RequireRole(auth.RoleDispatcher, auth.RoleFieldAgent))
	api.POST("/service-requests/:id/assign", h.AssignRequest, auth.RequireRole(auth.RoleDispatcher))
	api.POST("/service-requests/:id/accept", h.AcceptRequest, auth.RequireRole(auth.RoleFieldAgent))
	api.POST("/service-requests/:id/advance", h.AdvanceRequest, auth.RequireRole(auth.RoleFieldAgent))
	api.POST("/service-requests/:id/release", h.ReleaseRequest, auth.RequireRole(auth.RoleDispatcher))
	api.GET("/staff/:id/earnings", h.StaffEarnings, auth.RequireRole(auth.RoleDispatcher, auth.RoleFieldAgent))
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotEligible),
		errors.Is(err, ErrNotAssigned),
		errors.Is(err, ErrAlreadyClaimed),
		errors.Is(err, ErrTerminalState),
		errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreateRequest(c echo.Context) error {
	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &req); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *Handler) GetRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) ListRequests(c echo.Context) error {
	pg := pagination.FromContext(c)
	status := Status(c.QueryParam("status"))
	reqs, total, err := h.svc.List(c.Request().Context(), status, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reqs, total, pg.Limit, pg.Offset))
}

type assignBody struct {
	StaffID    uuid.UUID `json:"staff_id"`
	Unit       string    `json:"unit"`
	Commission *float64  `json:"commission,omitempty"`
}

func (h *Handler) AssignRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body assignBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.StaffID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "staff_id is required")
	}
	if err := h.svc.Assign(c.Request().Context(), id, body.StaffID, body.Unit, body.Commission); err != nil {
		return httpError(err)
	}
	req, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}

type agentBody struct {
	StaffID uuid.UUID `json:"staff_id"`
}

func (h *Handler) AcceptRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body agentBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.StaffID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "staff_id is required")
	}
	if err := h.svc.Accept(c.Request().Context(), id, body.StaffID); err != nil {
		return httpError(err)
	}
	req, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) AdvanceRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body agentBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.StaffID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "staff_id is required")
	}
	next, err := h.svc.Advance(c.Request().Context(), id, body.StaffID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"id": id, "status": next})
}

func (h *Handler) ReleaseRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Release(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	req, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) StaffEarnings(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	summary, err := h.svc.Earnings(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
