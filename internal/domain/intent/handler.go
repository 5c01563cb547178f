package intent

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/intenthealth/platform/internal/platform/eventstore"
	"github.com/intenthealth/platform/pkg/pagination"
)

// EventLister reads the event log for the events endpoint.
type EventLister interface {
	List(ctx context.Context, f eventstore.Filter) ([]*eventstore.Record, error)
}

type Handler struct {
	svc    *Service
	events EventLister
}

func NewHandler(svc *Service, events EventLister) *Handler {
	return &Handler{svc: svc, events: events}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/execute", h.Execute)
	g.GET("/events", h.ListEvents)
}

func (h *Handler) Execute(c echo.Context) error {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	req, err := RequestFromMap(body)
	if err != nil {
		return toHTTPError(err)
	}
	resp, err := h.svc.Execute(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListEvents(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := eventstore.Filter{
		ResourceType: c.QueryParam("resource_type"),
		PatientID:    c.QueryParam("patient_id"),
	}
	records, err := h.events.List(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Window(records, pg), len(records), pg.Limit, pg.Offset))
}

// toHTTPError maps dispatcher errors to status codes: 403 for policy
// violations, 400 for other request errors, 500 otherwise.
func toHTTPError(err error) error {
	var denied *AuthorizationError
	if errors.As(err, &denied) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	if IsClientError(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
