package embed_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	appembed "github.com/astro-web3/metabase-embed/internal/app/embed"
	"github.com/astro-web3/metabase-embed/internal/domain/embed"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing", err: embed.ErrMissingParameter, want: http.StatusBadRequest},
		{name: "invalid", err: fmt.Errorf("%w: %q", embed.ErrInvalidParameter, "abc"), want: http.StatusBadRequest},
		{name: "not allowed", err: errors.Join(errors.New("context"), embed.ErrDashboardNotAllowed), want: http.StatusForbidden},
		{name: "signing", err: embed.ErrSigning, want: http.StatusInternalServerError},
		{name: "response construction", err: embed.ErrResponseConstruction, want: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := appembed.StatusForError(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
