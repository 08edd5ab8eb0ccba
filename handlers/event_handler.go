package handlers

import (
	"context"
	"errors"
	"net/http"

	"event-hub/models"

	"github.com/labstack/echo/v5"
)

type EventStore interface {
	Create(ctx context.Context, body map[string]any) (*models.InsertResult, error)
	Join(ctx context.Context, id, email string) error
	List(ctx context.Context, search string) ([]models.Event, error)
	Replace(ctx context.Context, id string, in models.EventInput) (*models.UpdateResult, error)
	Delete(ctx context.Context, id string) (*models.DeleteResult, error)
}

type EventHandler struct {
	events EventStore
}

func NewEventHandler(events EventStore) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var body map[string]any
	if err := bindBody(c, &body); err != nil {
		return err
	}

	result, err := h.events.Create(c.Request().Context(), body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *EventHandler) JoinEvent(c echo.Context) error {
	var req models.JoinRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.events.Join(c.Request().Context(), c.PathParam("id"), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Successfully joined the event"})
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.events.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	var in models.EventInput
	if err := bindBody(c, &in); err != nil {
		return err
	}

	result, err := h.events.Replace(c.Request().Context(), c.PathParam("id"), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	result, err := h.events.Delete(c.Request().Context(), c.PathParam("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// bindBody decodes the request body only; path and query values never leak into dst.
func bindBody(c echo.Context, dst any) error {
	err := echo.BindBody(c, dst)
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code != http.StatusBadRequest {
		return he
	}
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").WithInternal(err)
}
