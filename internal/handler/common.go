package handler // handler defines http handlers

import (
	"errors"  // sentinel values used in context helpers
	"strconv" // string to numeric conversions

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/campus-space-booking/internal/approval"
	"github.com/iliyamo/campus-space-booking/internal/model"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT numeric claims decode as float64, so several numeric
// shapes are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getUserName extracts the display-name claim stored by the JWT
// middleware.  It may legitimately be empty for tokens issued before
// the claim existed.
func getUserName(c echo.Context) string {
	if v, ok := c.Get("user_name").(string); ok {
		return v
	}
	return ""
}

// getRole extracts the role claim stored by the JWT middleware.
func getRole(c echo.Context) string {
	if v, ok := c.Get("role").(string); ok {
		return v
	}
	return ""
}

// callerFromContext builds the explicit caller identity passed into
// every orchestrator operation.
func callerFromContext(c echo.Context) (approval.CallerContext, error) {
	id, err := getUserID(c)
	if err != nil {
		return approval.CallerContext{}, err
	}
	return approval.CallerContext{ID: id, Name: getUserName(c), Role: getRole(c)}, nil
}

// pathID parses the `:id` path parameter as a positive uint64.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// reservationView is the JSON shape returned for reservations across
// handlers.  Decision metadata is flattened and omitted while null.
type reservationView struct {
	ID             uint64  `json:"id"`
	OrganizationID uint64  `json:"organization_id"`
	Kind           string  `json:"kind"`
	Date           string  `json:"date"`
	StartsAt       string  `json:"starts_at"`
	EndsAt         string  `json:"ends_at"`
	AttendeeCount  uint32  `json:"attendee_count"`
	RequesterName  string  `json:"requester_name"`
	RequesterPhone string  `json:"requester_phone"`
	Motive         string  `json:"motive"`
	Details        *string `json:"details,omitempty"`
	RoomID         *uint64 `json:"room_id,omitempty"`
	EventID        *uint64 `json:"event_id,omitempty"`
	Status         string  `json:"status"`
	ReviewerName   *string `json:"reviewer_name,omitempty"`
	Comment        *string `json:"decision_comment,omitempty"`
	DecidedAt      *string `json:"decided_at,omitempty"`
	CancelReason   *string `json:"cancel_reason,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// newReservationView converts a model row into its JSON shape.
func newReservationView(res *model.Reservation) reservationView {
	v := reservationView{
		ID:             res.ID,
		OrganizationID: res.OrganizationID,
		Kind:           string(res.Kind),
		Date:           res.Date.UTC().Format("2006-01-02"),
		StartsAt:       res.StartsAt.UTC().Format(timeFormat),
		EndsAt:         res.EndsAt.UTC().Format(timeFormat),
		AttendeeCount:  res.AttendeeCount,
		RequesterName:  res.RequesterName,
		RequesterPhone: res.RequesterPhone,
		Motive:         res.Motive,
		Details:        res.Details,
		RoomID:         res.RoomID,
		EventID:        res.EventID,
		Status:         string(res.Status),
		CancelReason:   res.CancelReason,
		CreatedAt:      res.CreatedAt.UTC().Format(timeFormat),
	}
	if res.Decision != nil {
		name := res.Decision.ReviewerName
		comment := res.Decision.Comment
		decided := res.Decision.DecidedAt.UTC().Format(timeFormat)
		v.ReviewerName = &name
		v.Comment = &comment
		v.DecidedAt = &decided
	}
	return v
}

// timeFormat is RFC3339, the wire format for all timestamps.
const timeFormat = "2006-01-02T15:04:05Z07:00"
