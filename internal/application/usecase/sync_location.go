package usecase

import (
	"context"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/logging"
)

// LocationSync connects the tab registry to the host router.
type LocationSync struct {
	router port.Router
}

// NewLocationSync creates a new LocationSync.
func NewLocationSync(router port.Router) *LocationSync {
	return &LocationSync{router: router}
}

// CurrentLocation returns the host's current path.
func (s *LocationSync) CurrentLocation(ctx context.Context) string {
	return s.router.CurrentLocation(ctx)
}

// NavigateTo asks the host to move to href.
func (s *LocationSync) NavigateTo(ctx context.Context, href string) {
	logging.FromContext(ctx).Debug().Str("href", href).Msg("navigating")
	s.router.NavigateTo(ctx, href)
}
