package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"event-hub/internal/status"
	"event-hub/models"

	"github.com/labstack/echo/v5"
)

const internalErrorMessage = "Internal server error"

var errorResponses = []struct {
	err     error
	code    int
	message string
}{
	{status.ErrEmailRequired, http.StatusBadRequest, "User email is required"},
	{status.ErrAlreadyJoined, http.StatusBadRequest, "User already joined the event"},
	{status.ErrInvalidID, http.StatusBadRequest, "Invalid event id"},
	{status.ErrInvalidDateTime, http.StatusBadRequest, "Invalid dateTime"},
	{status.ErrUserExists, http.StatusBadRequest, "User already exists"},
	{status.ErrEmailNotFound, http.StatusUnauthorized, "Email not found"},
	{status.ErrIncorrectPassword, http.StatusUnauthorized, "Incorrect password"},
}

// ErrorHandler is the echo HTTPErrorHandler. Every error body is {"message": ...}.
func ErrorHandler(c echo.Context, err error) {
	if c.Response().Committed {
		return
	}

	code, message := translateError(err)
	if code >= http.StatusInternalServerError {
		slog.Error("Request failed",
			"method", c.Request().Method,
			"route", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err)
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(code)
	} else {
		sendErr = c.JSON(code, models.MessageResponse{Message: message})
	}
	if sendErr != nil {
		slog.Error("Failed to write error response", "error", sendErr)
	}
}

func translateError(err error) (int, string) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			return r.code, r.message
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok && msg != "" {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	return http.StatusInternalServerError, internalErrorMessage
}
