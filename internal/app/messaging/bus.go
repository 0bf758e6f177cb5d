// Package messaging carries the application-wide open-tab signal.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/careshell/internal/logging"
)

// ErrInvalidSignal is returned when an open-tab signal is malformed.
var ErrInvalidSignal = errors.New("invalid open-tab signal")

// OpenTabSignal asks the workspace to open or focus the tab for Href.
type OpenTabSignal struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

// Validate checks that href and title are present and href is an absolute path.
func (s OpenTabSignal) Validate() error {
	href := strings.TrimSpace(s.Href)
	if href == "" {
		return fmt.Errorf("%w: href is required", ErrInvalidSignal)
	}
	if !strings.HasPrefix(href, "/") {
		return fmt.Errorf("%w: href %q must be an absolute path", ErrInvalidSignal, href)
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSignal)
	}
	return nil
}

// Normalized returns the signal with surrounding whitespace removed.
func (s OpenTabSignal) Normalized() OpenTabSignal {
	return OpenTabSignal{Href: strings.TrimSpace(s.Href), Title: strings.TrimSpace(s.Title)}
}

// Handler reacts to an open-tab signal.
type Handler func(ctx context.Context, sig OpenTabSignal)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers open-tab signals to subscribers synchronously, in
// subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewBus creates a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler and returns a function that detaches it.
// The returned function is safe to call more than once.
func (b *Bus) Subscribe(handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of attached handlers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish validates sig and hands it to every subscriber.
// Malformed signals are dropped and ErrInvalidSignal is returned.
func (b *Bus) Publish(ctx context.Context, sig OpenTabSignal) error {
	log := logging.FromContext(ctx)

	if err := sig.Validate(); err != nil {
		log.Warn().Err(err).Msg("dropping open-tab signal")
		return err
	}
	sig = sig.Normalized()

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	log.Debug().
		Str("href", sig.Href).
		Int("subscribers", len(handlers)).
		Msg("publishing open-tab signal")

	for _, h := range handlers {
		h(ctx, sig)
	}
	return nil
}
