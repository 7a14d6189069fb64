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

// ReviewHandler serves the reviewer queue: listing reservations by
// status and running the approve / reject / cancel operations.
type ReviewHandler struct {
	Reservations *repository.ReservationRepo
	Flow         *approval.Orchestrator
}

func NewReviewHandler(r *repository.ReservationRepo, flow *approval.Orchestrator) *ReviewHandler {
	return &ReviewHandler{Reservations: r, Flow: flow}
}

type decisionReq struct {
	Comment string  `json:"comment"`
	RoomID  *uint64 `json:"room_id"`
}

// List returns reservations filtered by ?status=, defaulting to the
// PENDING queue.  ?updated_since= (RFC3339) instead returns every
// reservation touched after that instant, for dashboard polling.
func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		rows []*model.Reservation
		err  error
	)
	if sinceParam := strings.TrimSpace(c.QueryParam("updated_since")); sinceParam != "" {
		since, perr := time.Parse(time.RFC3339, sinceParam)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "updated_since must be RFC3339"})
		}
		rows, err = h.Reservations.UpdatedSince(ctx, since)
	} else {
		status := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))))
		if status == "" {
			status = model.StatusPending
		}
		if !model.ValidStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		rows, err = h.Reservations.ListByStatus(ctx, status)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]reservationView, 0, len(rows))
	for _, r := range rows {
		views = append(views, newReservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": views})
}

// Approve flips a PENDING reservation to APPROVED.  The comment is
// optional; room_id, when present, selects the room to bind.
func (h *ReviewHandler) Approve(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req decisionReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Flow.Approve(ctx, caller, id, approval.ApproveOptions{
		Comment: req.Comment,
		RoomID:  req.RoomID,
	})
	if err != nil {
		return approvalError(c, err)
	}
	return c.JSON(http.StatusOK, newReservationView(res))
}

// Reject flips a PENDING reservation to REJECTED.  A comment is
// mandatory so the requester learns why.
func (h *ReviewHandler) Reject(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req decisionReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Flow.Reject(ctx, caller, id, req.Comment)
	if err != nil {
		return approvalError(c, err)
	}
	return c.JSON(http.StatusOK, newReservationView(res))
}

// Cancel lets a reviewer withdraw any PENDING or APPROVED reservation,
// for example when a room is taken out of service.
func (h *ReviewHandler) Cancel(c echo.Context) error {
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

	res, err := h.Flow.Cancel(ctx, caller, id, req.Reason)
	if err != nil {
		return approvalError(c, err)
	}
	return c.JSON(http.StatusOK, newReservationView(res))
}

// approvalError maps orchestrator errors onto HTTP responses.
func approvalError(c echo.Context, err error) error {
	var dep *approval.DependentWriteError
	switch {
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, approval.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, approval.ErrCommentRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment required"})
	case errors.As(err, &dep):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "approval rolled back: event creation failed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
	}
}
