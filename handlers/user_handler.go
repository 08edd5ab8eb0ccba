package handlers

import (
	"context"
	"net/http"

	"event-hub/models"

	"github.com/labstack/echo/v5"
	"go.mongodb.org/mongo-driver/bson"
)

type UserStore interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Profile, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.Profile, error)
	List(ctx context.Context) ([]bson.M, error)
}

type UserHandler struct {
	users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	profile, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.UserResponse{User: *profile})
}

func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	profile, err := h.users.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.UserResponse{User: *profile})
}

// ListUsers returns stored user documents unfiltered, password hashes included.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, users)
}
