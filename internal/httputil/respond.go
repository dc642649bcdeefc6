// Package httputil maps workflow failures onto HTTP responses so every
// handler reports errors the same way.
package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/workflow"
)

// Error writes the uniform error body for a failed operation. Workflow
// errors keep their message and reason code; anything else is logged and
// reported as an opaque 500.
func Error(c echo.Context, log zerolog.Logger, err error) error {
	if workflow.KindOf(err) == 0 {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "code": "internal"})
	}
	body := echo.Map{"error": err.Error()}
	if code := workflow.ReasonOf(err); code != "" {
		body["code"] = code
	}
	return c.JSON(workflow.HTTPStatus(err), body)
}
