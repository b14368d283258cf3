package cart

import (
	"context"

	"github.com/sanoria/pricingservice/internal/domain"
)

// Repository stores cart snapshots keyed by session ID. The pricing engine
// never reads storage itself; callers fetch a snapshot here and pass it in
// explicitly. Concurrent writers are resolved last-write-wins; there is no
// optimistic concurrency control at this layer.
type Repository interface {
	// Get returns the cart for a session. A session with no stored cart
	// yields an empty cart, not an error.
	Get(ctx context.Context, sessionID string) (domain.Cart, error)

	// Save replaces the stored cart for a session
	Save(ctx context.Context, sessionID string, cart domain.Cart) error

	// Clear removes the stored cart for a session
	Clear(ctx context.Context, sessionID string) error
}
