package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JayJamieson/table-editor/pkg/models"
	"github.com/JayJamieson/table-editor/pkg/session"
	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/JayJamieson/table-editor/pkg/view"
	"github.com/JayJamieson/table-editor/pkg/volumes"
	"github.com/JayJamieson/table-editor/pkg/warehouse"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var errSessionNotFound = errors.New("session not found")

var badInput = []error{
	table.ErrColumnMismatch,
	table.ErrRowOutOfRange,
	table.ErrUnknownColumn,
	table.ErrDuplicateKey,
	table.ErrNoKey,
	session.ErrUnknownStrategy,
	volumes.ErrInvalidVolume,
	volumes.ErrInvalidName,
}

func createErrorResponse(c echo.Context, status int, error string, message string) error {
	resp := models.ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Error:     error,
		Message:   message,
	}
	return c.JSON(status, resp)
}

// errorStatus maps an operation error to a status code and a short title.
func errorStatus(err error) (int, string) {
	var whErr *warehouse.Error
	if errors.As(err, &whErr) {
		switch whErr.Kind {
		case warehouse.WriteError:
			return http.StatusInternalServerError, "Write error"
		case warehouse.QueryError:
			return http.StatusBadGateway, "Query error"
		default:
			return http.StatusBadGateway, "Connection error"
		}
	}

	switch {
	case errors.Is(err, errSessionNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, volumes.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, session.ErrNotWritable):
		return http.StatusConflict, "Saving disabled"
	}

	for _, target := range badInput {
		if errors.Is(err, target) {
			return http.StatusBadRequest, "Invalid request"
		}
	}
	return http.StatusInternalServerError, "Internal error"
}

func respondError(c echo.Context, err error) error {
	status, title := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg(title)
	}
	return createErrorResponse(c, status, title, err.Error())
}

// handleError renders errors that escape handlers: binding, validation and
// routing failures. Editor pages get HTML, everything else JSON.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, title := errorStatus(err)
	message := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		title = http.StatusText(he.Code)
		message = fmt.Sprint(he.Message)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/editor") || strings.HasPrefix(c.Request().URL.Path, "/tables") {
		if rerr := render(c, view.ErrorPage(title, message), status); rerr != nil {
			log.Error().Err(rerr).Msg("failed to render error page")
		}
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	if rerr := createErrorResponse(c, status, title, message); rerr != nil {
		log.Error().Err(rerr).Msg("failed to write error response")
	}
}
