package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/BitFracture/squirrel-lighting-control/internal/command"
	apperrors "github.com/BitFracture/squirrel-lighting-control/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

const maxCommandBodyBytes = 4 << 10

func (s *Server) registerCommandRoutes(rateLimit echo.MiddlewareFunc) {
	s.echo.POST("/command", s.handleSetCommand, rateLimit)
	s.echo.GET("/api/command", s.handleGetCommand)
}

type setCommandRequest struct {
	Command *string `json:"command"`
}

type commandResponse struct {
	Status    string `json:"status,omitempty"`
	Command   string `json:"command"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// handleSetCommand accepts {"command": "..."} regardless of Content-Type and
// forwards the field to the command cell without interpreting it.
func (s *Server) handleSetCommand(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCommandBodyBytes+1))
	if err != nil {
		return apperrors.ValidationError("failed to read request body")
	}
	if len(body) > maxCommandBodyBytes {
		return apperrors.ValidationError("request body too large").WithField("limit_bytes", maxCommandBodyBytes)
	}

	var req setCommandRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.ValidationError("request body must be a JSON object").WithField("cause", err.Error())
	}
	if req.Command == nil {
		return apperrors.ValidationError("command is required")
	}

	cmd := s.commands.SetCommand(*req.Command)

	response := commandResponse{
		Status:    "ok",
		Command:   strings.TrimSuffix(cmd.Text, command.Terminator),
		UpdatedAt: cmd.UpdatedAt.UTC().Format(timeFormat),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetCommand(c echo.Context) error {
	cmd := s.commands.Current()
	response := commandResponse{Command: strings.TrimSuffix(cmd.Text, command.Terminator)}
	if !cmd.UpdatedAt.IsZero() {
		response.UpdatedAt = cmd.UpdatedAt.UTC().Format(timeFormat)
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
