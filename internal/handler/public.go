package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-booking/internal/model"
	"github.com/iliyamo/campus-space-booking/internal/repository"
)

// PublicHandler exposes unauthenticated browse endpoints: the
// organization list backing the intake form dropdown, and the
// approved-event calendar.  Responses are sanitized; no requester
// contact details leave this surface.
type PublicHandler struct {
	Orgs   *repository.OrganizationRepo
	Events *repository.EventRepo
}

func NewPublicHandler(o *repository.OrganizationRepo, e *repository.EventRepo) *PublicHandler {
	return &PublicHandler{Orgs: o, Events: e}
}

type organizationView struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type eventView struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Location       string  `json:"location"`
	Date           string  `json:"date"`
	StartsAt       string  `json:"starts_at"`
	EndsAt         string  `json:"ends_at"`
	Capacity       uint32  `json:"capacity"`
	OrganizationID uint64  `json:"organization_id"`
	RoomID         *uint64 `json:"room_id,omitempty"`
}

func newEventView(ev *model.Event) eventView {
	return eventView{
		ID:             ev.ID,
		Name:           ev.Name,
		Description:    ev.Description,
		Location:       ev.Location,
		Date:           ev.Date.UTC().Format("2006-01-02"),
		StartsAt:       ev.StartsAt.UTC().Format(timeFormat),
		EndsAt:         ev.EndsAt.UTC().Format(timeFormat),
		Capacity:       ev.Capacity,
		OrganizationID: ev.OrganizationID,
		RoomID:         ev.RoomID,
	}
}

// ListOrganizations returns all organizations for the intake form.
func (h *PublicHandler) ListOrganizations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orgs, err := h.Orgs.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]organizationView, 0, len(orgs))
	for _, o := range orgs {
		views = append(views, organizationView{ID: o.ID, Name: o.Name, IsActive: o.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"organizations": views})
}

// ListEvents returns the public calendar, optionally filtered by
// ?organization_id=.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	orgID, err := strconv.ParseUint(c.QueryParam("organization_id"), 10, 64)
	if err != nil || orgID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization_id required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.ListByOrganization(ctx, orgID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, newEventView(ev))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": views})
}

// GetEvent returns one calendar event by id.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, newEventView(ev))
}
