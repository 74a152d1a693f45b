package port

import "context"

// IdempotencyStore claims request IDs so a retried sale request cannot
// commit twice.
type IdempotencyStore interface {
	// Claim reserves the key, returning false if it is already held.
	Claim(ctx context.Context, key string) (bool, error)

	// Release frees a claimed key (rollback path after a failed sale).
	Release(ctx context.Context, key string) error
}
