// Package casher provides Redis-based caching for serialized form data
package casher

import (
	"context"
	"fmt"

	"github.com/formhive/form-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// FORM_KEY_TEMPLATE defines the format for Redis keys
// It prefixes all form keys with "form:" to create a namespace
const FORM_KEY_TEMPLATE = "form:%s"

// Casher handles caching operations using Redis as the backend
type Casher struct {
	client *redis.Client  // Redis client for storage operations
	logger *logger.Logger // Logger for error tracking and debugging
}

// Init creates a new Casher instance with the provided Redis client and logger
func Init(client *redis.Client, logger *logger.Logger) *Casher {
	return &Casher{
		client: client,
		logger: logger,
	}
}

func (c *Casher) Close() error {
	return c.client.Close()
}

func (c *Casher) IsHealthy() bool {
	return c.client.Ping(context.Background()).Err() == nil
}

// AddToCash stores a payload under the form key namespace with no
// expiration; entries live until the owning form is mutated or deleted.
// Payload must marshal through the redis client (pointer to a
// serializable value or raw bytes).
func (c *Casher) AddToCash(ctx context.Context, key string, payload any) error {
	res := c.client.Set(ctx, fmt.Sprintf(FORM_KEY_TEMPLATE, key), payload, 0)

	if err := res.Err(); err != nil {
		c.logger.Error("failed to cash payload with",
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// RemoveFromCash drops the cached entry for a deleted form. A missing
// key is not an error.
func (c *Casher) RemoveFromCash(ctx context.Context, key string) error {
	res := c.client.Del(ctx, fmt.Sprintf(FORM_KEY_TEMPLATE, key))

	if res.Err() != nil {
		c.logger.Error("error delete from redis",
			zap.String("key", key),
			zap.Error(res.Err()))
	}

	return nil
}

// GetCashFor retrieves the cached bytes for a form key, if present.
func (c *Casher) GetCashFor(ctx context.Context, key string) ([]byte, error) {
	res := c.client.Get(ctx, fmt.Sprintf(FORM_KEY_TEMPLATE, key))
	if err := res.Err(); err != nil {
		c.logger.Error("error get cash",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	data, err := res.Bytes()
	if err != nil {
		c.logger.Error("error get cashed bytes",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	return data, nil
}
