package cartstore

import (
	"context"
	"errors"

	"brewcart/internal/model"
)

var (
	// ErrNotFound is returned when no cart exists for the owner key.
	ErrNotFound = errors.New("cart not found")

	// ErrVersionConflict is returned when a conditional write loses to
	// a concurrent update; the caller should re-read and retry.
	ErrVersionConflict = errors.New("cart version conflict")
)

// Store persists cart snapshots. Every write is conditional on the
// version the caller read, so concurrent edits to the same cart cannot
// silently overwrite each other.
type Store interface {
	// Get retrieves the cart for the given owner key.
	Get(ctx context.Context, ownerKey string) (*model.Cart, error)

	// Save persists the cart. A cart with version zero is inserted;
	// otherwise the write is conditional on the stored version
	// matching cart.Version, and bumps it on success.
	Save(ctx context.Context, cart *model.Cart) error

	// ClaimForCheckout flips the cart to the checking-out status,
	// conditional on the given version. A claimed cart rejects
	// further edits and concurrent checkouts until released or cleared.
	ClaimForCheckout(ctx context.Context, ownerKey string, version int64) error

	// ReleaseClaim returns a claimed cart to the active status.
	ReleaseClaim(ctx context.Context, ownerKey string) error

	// Clear deletes the cart after a successful checkout.
	Clear(ctx context.Context, ownerKey string) error
}
