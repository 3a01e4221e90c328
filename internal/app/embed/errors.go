package embed

import (
	"errors"
	"net/http"

	"github.com/astro-web3/metabase-embed/internal/domain/embed"
)

// InternalErrorMessage replaces the detail of every 5xx response.
const InternalErrorMessage = "internal server error"

// StatusForError maps issuing errors to HTTP status codes for the
// HTTP and Lambda transports.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, embed.ErrMissingParameter),
		errors.Is(err, embed.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, embed.ErrDashboardNotAllowed):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
