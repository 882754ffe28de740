// Package markers persists the two durable session markers — the active
// client identifier and the session-active flag — so a later run can decide
// whether to attempt a profile fetch on startup. The markers are a cache
// hint only, never an authorization credential.
package markers

import "context"

// Marker keys.
const (
	KeyClientID   = "client_id"
	KeyAuthActive = "auth_active"
)

// ActiveValue is the value stored under KeyAuthActive for a live session.
const ActiveValue = "true"

type Repository interface {
	// Get returns the marker value, "" when absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// SetSession writes both session markers atomically: either both land
	// or neither does, so a crash cannot leave a half-written session.
	SetSession(ctx context.Context, clientID string) error
	// Clear removes all markers.
	Clear(ctx context.Context) error
}
