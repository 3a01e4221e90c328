package embed

import (
	"fmt"
	"strconv"
	"strings"
)

// DashboardParam is the query parameter carrying the dashboard identifier.
const DashboardParam = "dashboard"

// ParseDashboardID converts the raw dashboard parameter into an identifier.
// present reports whether the parameter was supplied at all, so that an
// empty value is rejected as invalid rather than missing. One leading '+'
// is accepted; '-' never is.
func ParseDashboardID(raw string, present bool) (uint32, error) {
	if !present {
		return 0, ErrMissingParameter
	}

	id, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidParameter, raw)
	}

	return uint32(id), nil
}
