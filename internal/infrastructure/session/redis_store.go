// Package session lista de tokens revocados en Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/pkg/config"
)

var _ ports.SessionStore = (*RedisStore)(nil)

const keyPrefix = "cremeria:revoked:"

// RedisStore guarda cada jti revocado con TTL igual a la vida restante del token.
type RedisStore struct {
	client *redis.Client
}

// Connect abre el cliente y verifica la conexión con un ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: ping: %w", err)
	}
	return client, nil
}

// NewRedisStore construye el almacén sobre un cliente abierto.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Revoke marca el jti como revocado hasta que expire.
func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("session: revocar: %w", err)
	}
	return nil
}

// IsRevoked indica si el jti está en la lista.
func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	}
	return false, fmt.Errorf("session: consultar: %w", err)
}
