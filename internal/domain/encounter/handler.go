package encounter

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
	read := api.Group("", auth.RequireRole(auth.RoleRegistrar, auth.RolePhysician, auth.RoleLab, auth.RoleDispatcher))
	read.GET("/encounters", h.ListEncounters)
	read.GET("/encounters/queue", h.Queue)
	read.GET("/encounters/:id", h.GetEncounter)
	read.GET("/encounters/:id/status-history", h.GetStatusHistory)

	api.POST("/encounters", h.CreateEncounter, auth.RequireRole(auth.RoleRegistrar))
	api.PATCH("/encounters/:id/status", h.UpdateStatus, auth.RequireRole(auth.RoleRegistrar, auth.RolePhysician, auth.RoleLab))
	api.POST("/encounters/:id/claim", h.Claim, auth.RequireRole(auth.RolePhysician, auth.RoleLab))
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrAlreadyClaimed),
		errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreateEncounter(c echo.Context) error {
	var enc Encounter
	if err := c.Bind(&enc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &enc); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, enc)
}

func (h *Handler) GetEncounter(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	enc, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enc)
}

func (h *Handler) ListEncounters(c echo.Context) error {
	pg := pagination.FromContext(c)

	if doc := c.QueryParam("patient_document"); doc != "" {
		encs, total, err := h.svc.ListByPatientDocument(c.Request().Context(), doc, pg.Limit, pg.Offset)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(encs, total, pg.Limit, pg.Offset))
	}

	encs, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(encs, total, pg.Limit, pg.Offset))
}

func (h *Handler) Queue(c echo.Context) error {
	module := Module(c.QueryParam("module"))
	if module == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "module is required")
	}
	encs, err := h.svc.Queue(c.Request().Context(), module)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, encs)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status Status  `json:"status"`
		Detail *string `json:"detail,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Transition(c.Request().Context(), id, body.Status, body.Detail); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]Status{"status": body.Status})
}

func (h *Handler) Claim(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		StaffID uuid.UUID `json:"staff_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Claim(c.Request().Context(), id, body.StaffID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"assigned_staff_id": body.StaffID.String()})
}

func (h *Handler) GetStatusHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	history, err := h.svc.StatusHistory(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, history)
}
