package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/BitFracture/squirrel-lighting-control/internal/command"
	"github.com/BitFracture/squirrel-lighting-control/internal/domain"
	"github.com/BitFracture/squirrel-lighting-control/internal/platform/version"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerStatusRoutes() {
	s.echo.GET("/api/clients", s.handleListClients)
	s.echo.GET("/ws/clients", s.handleClientStream)
}

type indexPage struct {
	Clients []domain.ClientView
	Command string
	Version string
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.renderTemplate(c, "index.html", indexPage{
		Clients: domain.Views(s.clients.Snapshot()),
		Command: strings.TrimSuffix(s.commands.Current().Text, command.Terminator),
		Version: version.Get().String(),
	})
}

func (s *Server) handleListClients(c echo.Context) error {
	if err := c.JSON(http.StatusOK, domain.Views(s.clients.Snapshot())); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
