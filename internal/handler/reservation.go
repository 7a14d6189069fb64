package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-booking/internal/approval"
	"github.com/iliyamo/campus-space-booking/internal/model"
	"github.com/iliyamo/campus-space-booking/internal/repository"
)

// ReservationHandler serves the requester-facing reservation surface:
// intake, listing, detail and self-cancellation.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Orgs         *repository.OrganizationRepo
	Flow         *approval.Orchestrator
}

func NewReservationHandler(r *repository.ReservationRepo, o *repository.OrganizationRepo, flow *approval.Orchestrator) *ReservationHandler {
	return &ReservationHandler{Reservations: r, Orgs: o, Flow: flow}
}

type createReservationReq struct {
	OrganizationID uint64  `json:"organization_id"`
	Kind           string  `json:"kind"`
	Date           string  `json:"date"`      // YYYY-MM-DD
	StartsAt       string  `json:"starts_at"` // RFC3339
	EndsAt         string  `json:"ends_at"`   // RFC3339
	AttendeeCount  uint32  `json:"attendee_count"`
	RequesterName  string  `json:"requester_name"`
	RequesterPhone string  `json:"requester_phone"`
	Motive         string  `json:"motive"`
	Details        *string `json:"details"`
	RoomID         *uint64 `json:"room_id"` // optional pre-selection
}

type cancelReq struct {
	Reason string `json:"reason"`
}

// Create files a new reservation in PENDING state.  No availability
// check happens here; conflicts are the reviewer's call.
func (h *ReservationHandler) Create(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	kind := model.ReservationKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
	if !model.ValidKind(kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be ROOM or AUDITORIUM"})
	}
	req.RequesterName = strings.TrimSpace(req.RequesterName)
	req.Motive = strings.TrimSpace(req.Motive)
	if req.OrganizationID == 0 || req.RequesterName == "" || req.Motive == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization_id, requester_name and motive required"})
	}
	if req.AttendeeCount == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "attendee_count must be positive"})
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	starts, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	ends, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
	}
	if !ends.After(starts) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Orgs.GetByID(ctx, req.OrganizationID); err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	profileID := caller.ID
	res := &model.Reservation{
		OrganizationID: req.OrganizationID,
		Kind:           kind,
		Date:           day,
		StartsAt:       starts.UTC(),
		EndsAt:         ends.UTC(),
		AttendeeCount:  req.AttendeeCount,
		RequesterName:  req.RequesterName,
		RequesterPhone: strings.TrimSpace(req.RequesterPhone),
		ProfileID:      &profileID,
		Motive:         req.Motive,
		Details:        req.Details,
		RoomID:         req.RoomID,
		Status:         model.StatusPending,
	}
	if err := h.Reservations.Create(ctx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	return c.JSON(http.StatusCreated, newReservationView(res))
}

// ListMine returns the caller's own reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Reservations.ListByProfile(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]reservationView, 0, len(rows))
	for _, r := range rows {
		views = append(views, newReservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": views})
}

// Get returns one reservation.  Requesters can only see their own;
// reviewers can see any.
func (h *ReservationHandler) Get(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if caller.Role != model.RoleReviewer && !ownedBy(res, caller.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, newReservationView(res))
}

// Cancel lets the requester withdraw their own reservation while it
// is still PENDING or already APPROVED.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req cancelReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ownedBy(res, caller.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	updated, err := h.Flow.Cancel(ctx, caller, id, req.Reason)
	if err != nil {
		return approvalError(c, err)
	}
	return c.JSON(http.StatusOK, newReservationView(updated))
}

// ownedBy reports whether the reservation is linked to the given
// profile.  Anonymous reservations (nil ProfileID) belong to no one.
func ownedBy(res *model.Reservation, profileID uint64) bool {
	return res.ProfileID != nil && *res.ProfileID == profileID
}
