package ports

import (
	"context"
	"time"
)

// SessionStore lista de tokens revocados por logout, indexada por jti.
type SessionStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
