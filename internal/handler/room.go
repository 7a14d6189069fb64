package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-space-booking/internal/model"
	"github.com/iliyamo/campus-space-booking/internal/repository"
)

// RoomHandler serves read-only room listings.  Room availability
// search is deliberately absent; reviewers pick rooms by eye.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewRoomHandler(r *repository.RoomRepo) *RoomHandler {
	return &RoomHandler{Rooms: r}
}

type roomView struct {
	ID         uint64  `json:"id"`
	Label      string  `json:"label"`
	Building   string  `json:"building"`
	Floor      string  `json:"floor"`
	Location   string  `json:"location"`
	Capacity   uint32  `json:"capacity"`
	IsActive   bool    `json:"is_active"`
	OccupiedBy *uint64 `json:"occupied_by,omitempty"`
}

func newRoomView(r *model.Room) roomView {
	return roomView{
		ID:         r.ID,
		Label:      r.Label,
		Building:   r.Building,
		Floor:      r.Floor,
		Location:   r.LocationLabel(),
		Capacity:   r.Capacity,
		IsActive:   r.IsActive,
		OccupiedBy: r.OccupiedBy,
	}
}

// List returns every room, active or not.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, newRoomView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": views})
}

// Get returns one room by id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, newRoomView(room))
}
