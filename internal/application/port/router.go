package port

import "context"

// Router is the host routing integration. The host is authoritative
// for what the current location is.
type Router interface {
	// CurrentLocation returns the host's current path.
	CurrentLocation(ctx context.Context) string

	// NavigateTo asks the host to move to href. Fire-and-forget.
	NavigateTo(ctx context.Context, href string)
}
