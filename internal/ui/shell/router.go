package shell

import (
	"context"
	"sync"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/domain/entity"
)

// HostRouter is the router of one remote client. The client reports
// where it is with SetLocation; navigation requests are queued until
// the transport picks them up with TakeNavigation.
type HostRouter struct {
	mu       sync.Mutex
	location string
	pending  string
}

var _ port.Router = (*HostRouter)(nil)

// NewHostRouter creates a router positioned at the root path.
func NewHostRouter() *HostRouter {
	return &HostRouter{location: entity.DefaultRootPath}
}

// CurrentLocation returns the last known client location.
func (r *HostRouter) CurrentLocation(context.Context) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// NavigateTo records href as the client's next location.
func (r *HostRouter) NavigateTo(_ context.Context, href string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = href
	r.pending = href
}

// SetLocation records where the client actually is.
func (r *HostRouter) SetLocation(location string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = location
}

// TakeNavigation returns and clears the pending navigation.
func (r *HostRouter) TakeNavigation() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	href := r.pending
	r.pending = ""
	return href, href != ""
}
