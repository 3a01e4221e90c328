package embed

import "context"

// DashboardPolicy decides whether a dashboard may be embedded.
type DashboardPolicy interface {
	Allowed(ctx context.Context, dashboardID uint32) (bool, error)
}

type allowAll struct{}

// AllowAll accepts every dashboard identifier.
func AllowAll() DashboardPolicy {
	return allowAll{}
}

func (allowAll) Allowed(context.Context, uint32) (bool, error) {
	return true, nil
}

type staticAllowlist struct {
	ids map[uint32]struct{}
}

// NewStaticAllowlist accepts only the listed dashboards. The set is copied
// and never mutated afterwards.
func NewStaticAllowlist(ids []uint32) DashboardPolicy {
	set := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &staticAllowlist{ids: set}
}

func (s *staticAllowlist) Allowed(_ context.Context, dashboardID uint32) (bool, error) {
	_, ok := s.ids[dashboardID]
	return ok, nil
}
